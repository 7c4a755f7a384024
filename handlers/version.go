package handlers

import (
	"net/http"
	"os"
	"strings"
	"sync"
)

// Version is set at build time or read from version.txt
var (
	version     string
	versionOnce sync.Once
)

type VersionHandler struct{}

type VersionResponse struct {
	Version string `json:"version"`
}

func NewVersionHandler() *VersionHandler {
	return &VersionHandler{}
}

// BackendVersion reads the version from version.txt (cached after first read).
func BackendVersion() string {
	versionOnce.Do(func() {
		data, err := os.ReadFile("version.txt")
		if err != nil {
			version = "dev"
			return
		}
		version = strings.TrimSpace(string(data))
	})
	return version
}

func (h *VersionHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: BackendVersion()})
}
