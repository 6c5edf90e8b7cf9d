package berth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is the sentinel wrapped by not-found errors so callers can
// test with errors.Is without inspecting Docker SDK error types.
var ErrNotFound = errors.New("resource not found")

// DockerError represents a user-facing Docker error with remediation steps.
// It wraps underlying Docker SDK errors with context and actionable guidance.
type DockerError struct {
	Op        string   // Operation that failed (e.g., "connect", "build")
	Err       error    // Underlying error
	Message   string   // Human-readable message
	NextSteps []string // Suggested remediation steps
}

func (e *DockerError) Error() string {
	return e.Message
}

func (e *DockerError) Unwrap() error {
	return e.Err
}

// FormatUserError formats the error for display to users with next steps.
func (e *DockerError) FormatUserError() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Error: %s\n", e.Message))

	if e.Err != nil {
		sb.WriteString(fmt.Sprintf("  Details: %s\n", e.Err.Error()))
	}

	if len(e.NextSteps) > 0 {
		sb.WriteString("\nNext Steps:\n")
		for i, step := range e.NextSteps {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
		}
	}

	return sb.String()
}

// ErrDaemonUnreachable returns an error for when the Docker daemon is not accessible.
func ErrDaemonUnreachable(err error) *DockerError {
	return &DockerError{
		Op:      "connect",
		Err:     err,
		Message: "Cannot connect to Docker daemon",
		NextSteps: []string{
			"Ensure Docker is installed",
			"Start Docker Desktop (macOS/Windows) or run 'sudo systemctl start docker' (Linux)",
			"Check if the Docker socket is accessible: ls -la /var/run/docker.sock",
			"Verify your user is in the docker group: groups $USER",
		},
	}
}

// ErrImageBuildFailed returns an error for when an image build fails.
func ErrImageBuildFailed(err error) *DockerError {
	return &DockerError{
		Op:      "build",
		Err:     err,
		Message: "Failed to build image",
		NextSteps: []string{
			"Review the build output for the failing step",
			"Verify the base image tag exists and is reachable",
			"Check network access to the package index",
		},
	}
}

// ErrImageNotFound returns an error for when an image cannot be found.
func ErrImageNotFound(image string, err error) *DockerError {
	if err == nil {
		err = ErrNotFound
	}
	return &DockerError{
		Op:      "inspect",
		Err:     err,
		Message: fmt.Sprintf("Image '%s' not found", image),
		NextSteps: []string{
			"Check the image name and tag are correct",
			"List managed images: seqpack image list",
		},
	}
}

// ErrImageRemoveFailed returns an error for when removing an image fails.
func ErrImageRemoveFailed(image string, err error) *DockerError {
	return &DockerError{
		Op:      "remove",
		Err:     err,
		Message: fmt.Sprintf("Failed to remove image '%s'", image),
		NextSteps: []string{
			"Check whether a container still uses the image: docker ps -a",
			"Retry with --force to remove anyway",
		},
	}
}

// ErrContainerNotFound returns an error for when a managed container is not found.
func ErrContainerNotFound(name string) *DockerError {
	return &DockerError{
		Op:      "find",
		Err:     ErrNotFound,
		Message: fmt.Sprintf("Container '%s' not found", name),
		NextSteps: []string{
			"Check the container name is correct",
			"List all containers: docker ps -a",
		},
	}
}

// ErrContainerCreateFailed returns an error for when container creation fails.
func ErrContainerCreateFailed(err error) *DockerError {
	return &DockerError{
		Op:      "create",
		Err:     err,
		Message: "Failed to create container",
		NextSteps: []string{
			"Check if the image exists",
			"Check for conflicting container names",
			"Review Docker daemon logs for details",
		},
	}
}

// ErrContainerStartFailed returns an error for when a container fails to start.
func ErrContainerStartFailed(name string, err error) *DockerError {
	return &DockerError{
		Op:      "start",
		Err:     err,
		Message: fmt.Sprintf("Failed to start container '%s'", name),
		NextSteps: []string{
			"Check container logs: docker logs " + name,
			"Verify the image is valid",
		},
	}
}

// ErrContainerWaitFailed returns an error for when waiting on a container fails.
func ErrContainerWaitFailed(name string, err error) *DockerError {
	return &DockerError{
		Op:      "wait",
		Err:     err,
		Message: fmt.Sprintf("Failed to wait for container '%s'", name),
		NextSteps: []string{
			"Check if the container exists: docker ps -a",
			"Verify the Docker daemon is running",
		},
	}
}

// ErrContainerLogsFailed returns an error for when fetching container logs fails.
func ErrContainerLogsFailed(name string, err error) *DockerError {
	return &DockerError{
		Op:      "logs",
		Err:     err,
		Message: fmt.Sprintf("Failed to get logs for container '%s'", name),
		NextSteps: []string{
			"Check if the container exists: docker ps -a",
		},
	}
}

// ErrContainerRemoveFailed returns an error for when container removal fails.
func ErrContainerRemoveFailed(name string, err error) *DockerError {
	return &DockerError{
		Op:      "remove",
		Err:     err,
		Message: fmt.Sprintf("Failed to remove container '%s'", name),
		NextSteps: []string{
			"Check if the container exists: docker ps -a",
			"Verify the container is not running",
		},
	}
}
