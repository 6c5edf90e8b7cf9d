package berth

import (
	"context"
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// ContainerCreate creates a container with the managed labels merged in.
func (e *Engine) ContainerCreate(
	ctx context.Context,
	config *container.Config,
	hostConfig *container.HostConfig,
	networkingConfig *network.NetworkingConfig,
	platform *ocispec.Platform,
	name string,
	extraLabels ...map[string]string,
) (container.CreateResponse, error) {
	config.Labels = MergeLabels(
		e.managedLabels(extraLabels...),
		config.Labels,
	)

	resp, err := e.cli.ContainerCreate(ctx, config, hostConfig, networkingConfig, platform, name)
	if err != nil {
		return container.CreateResponse{}, ErrContainerCreateFailed(err)
	}
	return resp, nil
}

// ContainerStart starts a managed container.
func (e *Engine) ContainerStart(ctx context.Context, containerID string, opts container.StartOptions) error {
	isManaged, err := e.IsContainerManaged(ctx, containerID)
	if err != nil {
		return ErrContainerStartFailed(containerID, err)
	}
	if !isManaged {
		return ErrContainerNotFound(containerID)
	}
	if err := e.cli.ContainerStart(ctx, containerID, opts); err != nil {
		return ErrContainerStartFailed(containerID, err)
	}
	return nil
}

// ContainerWait waits for a managed container to reach the given condition.
func (e *Engine) ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error) {
	isManaged, err := e.IsContainerManaged(ctx, containerID)
	if err != nil || !isManaged {
		errCh := make(chan error, 1)
		errCh <- ErrContainerNotFound(containerID)
		close(errCh)
		return nil, errCh
	}
	return e.cli.ContainerWait(ctx, containerID, condition)
}

// ContainerLogs streams logs from a managed container.
func (e *Engine) ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error) {
	isManaged, err := e.IsContainerManaged(ctx, containerID)
	if err != nil {
		return nil, ErrContainerLogsFailed(containerID, err)
	}
	if !isManaged {
		return nil, ErrContainerNotFound(containerID)
	}
	return e.cli.ContainerLogs(ctx, containerID, options)
}

// ContainerRemove removes a managed container. Unmanaged containers are refused.
func (e *Engine) ContainerRemove(ctx context.Context, containerID string, force bool) error {
	isManaged, err := e.IsContainerManaged(ctx, containerID)
	if err != nil {
		return ErrContainerRemoveFailed(containerID, err)
	}
	if !isManaged {
		return ErrContainerNotFound(containerID)
	}
	return e.cli.ContainerRemove(ctx, containerID, container.RemoveOptions{
		Force:         force,
		RemoveVolumes: false,
	})
}

// IsContainerManaged checks if a container has the managed label.
func (e *Engine) IsContainerManaged(ctx context.Context, containerID string) (bool, error) {
	info, err := e.cli.ContainerInspect(ctx, containerID)
	if err != nil {
		if client.IsErrNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return e.isManagedLabelPresent(info.Config.Labels), nil
}
