package berth

import (
	"context"
	"io"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

// ImageBuild builds an image from a build context.
// The managed label is merged into the build options so every image
// the engine produces can later be listed and removed safely.
func (e *Engine) ImageBuild(ctx context.Context, buildContext io.Reader, options types.ImageBuildOptions) (types.ImageBuildResponse, error) {
	options.Labels = MergeLabels(
		e.managedLabels(),
		options.Labels,
	)

	resp, err := e.cli.ImageBuild(ctx, buildContext, options)
	if err != nil {
		return types.ImageBuildResponse{}, ErrImageBuildFailed(err)
	}
	return resp, nil
}

// ImageList lists managed images. The managed label filter is always injected.
func (e *Engine) ImageList(ctx context.Context) ([]image.Summary, error) {
	return e.cli.ImageList(ctx, image.ListOptions{
		All:     true,
		Filters: e.managedFilter(),
	})
}

// ImageInspect inspects a managed image.
// Unmanaged images are reported as not found.
func (e *Engine) ImageInspect(ctx context.Context, imageRef string) (types.ImageInspect, error) {
	info, _, err := e.cli.ImageInspectWithRaw(ctx, imageRef)
	if err != nil {
		return types.ImageInspect{}, ErrImageNotFound(imageRef, err)
	}
	if !e.isManagedLabelPresent(info.Config.Labels) {
		return types.ImageInspect{}, ErrImageNotFound(imageRef, nil)
	}
	return info, nil
}

// ImageExists reports whether a managed image with the given reference exists.
func (e *Engine) ImageExists(ctx context.Context, imageRef string) (bool, error) {
	info, _, err := e.cli.ImageInspectWithRaw(ctx, imageRef)
	if err != nil {
		if client.IsErrNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return e.isManagedLabelPresent(info.Config.Labels), nil
}

// ImageRemove removes a managed image. Unmanaged images are refused.
func (e *Engine) ImageRemove(ctx context.Context, imageRef string, options image.RemoveOptions) ([]image.DeleteResponse, error) {
	isManaged, err := e.isManagedImage(ctx, imageRef)
	if err != nil {
		return nil, err
	}
	if !isManaged {
		return nil, ErrImageNotFound(imageRef, nil)
	}
	resp, err := e.cli.ImageRemove(ctx, imageRef, options)
	if err != nil {
		return nil, ErrImageRemoveFailed(imageRef, err)
	}
	return resp, nil
}

// ImageTag adds a tag to a managed image.
func (e *Engine) ImageTag(ctx context.Context, source, target string) error {
	isManaged, err := e.isManagedImage(ctx, source)
	if err != nil {
		return err
	}
	if !isManaged {
		return ErrImageNotFound(source, nil)
	}
	return e.cli.ImageTag(ctx, source, target)
}

// isManagedImage checks if an image has the managed label.
func (e *Engine) isManagedImage(ctx context.Context, imageRef string) (bool, error) {
	info, _, err := e.cli.ImageInspectWithRaw(ctx, imageRef)
	if err != nil {
		return false, ErrImageNotFound(imageRef, err)
	}
	return e.isManagedLabelPresent(info.Config.Labels), nil
}
