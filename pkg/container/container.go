// Package container detects whether the process runs under Docker or Kubernetes
package container

import (
	"os"
	"strings"
)

var (
	dockerEnvFile = "/.dockerenv"
	cgroupFile    = "/proc/1/cgroup"
	cgroupMarkers = []string{"docker", "containerd", "kubepods"}
)

// IsContainerised reports a best guess from the docker marker file, PID 1's
// cgroup and the in-cluster Kubernetes variable
func IsContainerised() bool {
	return fileExists(dockerEnvFile) || cgroupMentionsRuntime(cgroupFile) || os.Getenv("KUBERNETES_SERVICE_HOST") != ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func cgroupMentionsRuntime(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	content := string(data)
	for _, marker := range cgroupMarkers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}
