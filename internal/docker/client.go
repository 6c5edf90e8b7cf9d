package docker

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"

	"github.com/seqpack/seqpack/internal/logger"
	"github.com/seqpack/seqpack/pkg/berth"
)

// Client embeds berth.Engine with seqpack's label configuration.
// All berth.Engine methods are available directly on Client.
type Client struct {
	*berth.Engine
}

// NewClient creates a new seqpack Docker client. It configures the
// berth.Engine with seqpack's label prefix so every resource it creates
// is isolated under the dev.seqpack domain.
func NewClient(ctx context.Context, version string) (*Client, error) {
	engine, err := berth.New(ctx, berth.EngineOptions{
		LabelPrefix: EngineLabelPrefix,
		ExtraLabels: map[string]string{
			LabelVersion: version,
		},
	})
	if err != nil {
		return nil, err
	}
	return &Client{Engine: engine}, nil
}

// NewClientWithAPI creates a Client around an existing Docker API client.
// Intended for tests.
func NewClientWithAPI(cli client.APIClient) *Client {
	return &Client{Engine: berth.NewWithClient(cli, berth.EngineOptions{
		LabelPrefix: EngineLabelPrefix,
	})}
}

// BuildImageOpts contains options for building an image.
type BuildImageOpts struct {
	Tags           []string           // -t, --tag (multiple allowed)
	BuildArgs      map[string]*string // --build-arg KEY=VALUE
	NoCache        bool               // --no-cache
	Labels         map[string]string  // --label KEY=VALUE (merged with seqpack labels)
	Pull           bool               // --pull (maps to PullParent)
	SuppressOutput bool               // -q, --quiet
}

// BuildImage builds a Docker image from a tar build context and drains
// the daemon's JSON event stream, surfacing the first build error.
func (c *Client) BuildImage(ctx context.Context, buildContext io.Reader, opts BuildImageOpts) error {
	options := types.ImageBuildOptions{
		Tags:           opts.Tags,
		Dockerfile:     "Dockerfile",
		Remove:         true,
		NoCache:        opts.NoCache,
		BuildArgs:      opts.BuildArgs,
		Labels:         opts.Labels,
		PullParent:     opts.Pull,
		SuppressOutput: opts.SuppressOutput,
	}

	resp, err := c.ImageBuild(ctx, buildContext, options)
	if err != nil {
		return fmt.Errorf("building image: %w", err)
	}
	defer resp.Body.Close()

	// Even with SuppressOutput the stream must be drained for errors.
	return processBuildOutput(resp.Body, !opts.SuppressOutput)
}

// buildEvent represents a Docker build stream event.
type buildEvent struct {
	Stream      string `json:"stream"`
	Error       string `json:"error"`
	ErrorDetail struct {
		Message string `json:"message"`
	} `json:"errorDetail"`
}

// processBuildOutput decodes the daemon's build event stream. Build steps
// are logged at debug level when echo is set; errors abort immediately.
func processBuildOutput(reader io.Reader, echo bool) error {
	scanner := bufio.NewScanner(reader)
	var parseErrors int

	for scanner.Scan() {
		var event buildEvent

		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			parseErrors++
			logger.Debug().
				Err(err).
				Str("raw", string(scanner.Bytes())).
				Msg("failed to parse build output event")
			// After many consecutive failures the stream is not JSON anymore.
			if parseErrors > 10 {
				return fmt.Errorf("build output stream appears corrupted: %d consecutive parse failures", parseErrors)
			}
			continue
		}
		parseErrors = 0

		if event.Error != "" {
			return fmt.Errorf("build error: %s", event.Error)
		}
		if event.ErrorDetail.Message != "" {
			return fmt.Errorf("build error: %s", event.ErrorDetail.Message)
		}

		if echo {
			if stream := strings.TrimSpace(event.Stream); stream != "" {
				logger.Debug().Msg(stream)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading build output: %w", err)
	}

	logger.Debug().Msg("image build complete")
	return nil
}

// isNotFoundError reports whether err indicates a missing resource,
// unwrapping berth's error wrapper when present.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, berth.ErrNotFound) {
		return true
	}
	var dockerErr *berth.DockerError
	if errors.As(err, &dockerErr) && dockerErr.Err != nil {
		err = dockerErr.Err
	}
	return cerrdefs.IsNotFound(err) || client.IsErrNotFound(err)
}
