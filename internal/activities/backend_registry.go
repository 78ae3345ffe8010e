package activities

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// BackendEndpoint describes one downstream data service the invoker can reach.
type BackendEndpoint struct {
	Name    string
	URL     string
	Timeout time.Duration
}

const defaultBackendTimeout = 20 * time.Second

// backendRegistry holds endpoints keyed by backend name.
var backendRegistry = map[string]BackendEndpoint{}

func init() {
	loadBackendRegistry()
}

// loadBackendRegistry reads the YAML endpoint file if present and overlays
// per-backend env vars, e.g. TREND_ANALYSIS_BACKEND_URL. Deployments without a
// file fall back to env/default addresses resolved at lookup time.
func loadBackendRegistry() {
	path := strings.TrimSpace(os.Getenv("BACKEND_REGISTRY_FILE"))
	if path == "" {
		path = filepath.Join("config", "backends.yaml")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var raw struct {
		Backends []struct {
			Name           string `yaml:"name"`
			URL            string `yaml:"url"`
			TimeoutSeconds int    `yaml:"timeoutSeconds"`
		} `yaml:"backends"`
	}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return
	}
	for _, be := range raw.Backends {
		name := strings.TrimSpace(be.Name)
		if name == "" || strings.TrimSpace(be.URL) == "" {
			continue
		}
		timeout := defaultBackendTimeout
		if be.TimeoutSeconds > 0 {
			timeout = time.Duration(be.TimeoutSeconds) * time.Second
		}
		backendRegistry[name] = BackendEndpoint{Name: name, URL: strings.TrimSpace(be.URL), Timeout: timeout}
	}
}

// getBackendEndpoint resolves a backend address: env override first, then the
// registry file, then the conventional local default.
func getBackendEndpoint(name string) (BackendEndpoint, bool) {
	envKey := strings.ToUpper(name) + "_BACKEND_URL"
	if url := strings.TrimSpace(os.Getenv(envKey)); url != "" {
		timeout := defaultBackendTimeout
		if reg, ok := backendRegistry[name]; ok && reg.Timeout > 0 {
			timeout = reg.Timeout
		}
		return BackendEndpoint{Name: name, URL: url, Timeout: timeout}, true
	}
	if ep, ok := backendRegistry[name]; ok {
		return ep, true
	}
	switch name {
	case BackendTrendAnalysis, BackendMegaTrends, BackendChartDetails:
		return BackendEndpoint{
			Name:    name,
			URL:     "http://localhost:8095/backends/" + name,
			Timeout: defaultBackendTimeout,
		}, true
	}
	return BackendEndpoint{}, false
}
