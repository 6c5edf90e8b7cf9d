package docker

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/seqpack/seqpack/internal/config"
	"github.com/seqpack/seqpack/internal/logger"
	"github.com/seqpack/seqpack/pkg/berth"
)

// Check is a single verification result.
type Check struct {
	Name    string
	OK      bool
	Detail  string
	Fatal   bool // distinguishes failed checks from informational ones
	Skipped bool
}

// VerifyResult aggregates the checks run against an image.
type VerifyResult struct {
	Image  string
	Checks []Check
}

// Passed reports whether every non-skipped check succeeded.
func (r *VerifyResult) Passed() bool {
	for _, c := range r.Checks {
		if !c.Skipped && !c.OK {
			return false
		}
	}
	return true
}

// Verifier checks that a built image actually carries the runtime
// guarantees it was configured with: the non-root identity, the workspace
// working directory and the module path variable.
type Verifier struct {
	client *Client
	config *config.Config
}

// NewVerifier creates a Verifier for the given project configuration.
func NewVerifier(cli *Client, cfg *config.Config) *Verifier {
	return &Verifier{client: cli, config: cfg}
}

// Verify inspects the image and runs the static checks. When probe is
// set it also starts a short-lived container to confirm the effective
// runtime uid from inside the image.
func (v *Verifier) Verify(ctx context.Context, imageRef string, probe bool) (*VerifyResult, error) {
	info, err := v.client.ImageInspect(ctx, imageRef)
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{Image: imageRef}

	result.Checks = append(result.Checks, v.checkUser(info.Config.User))
	result.Checks = append(result.Checks, v.checkWorkdir(info.Config.WorkingDir))
	result.Checks = append(result.Checks, v.checkPathEnv(info.Config.Env))

	if probe {
		check, err := v.probeRuntimeUID(ctx, imageRef)
		if err != nil {
			return nil, err
		}
		result.Checks = append(result.Checks, check)
	} else {
		result.Checks = append(result.Checks, Check{
			Name:    "runtime uid probe",
			Skipped: true,
			Detail:  "pass --probe to run the container check",
		})
	}

	return result, nil
}

func (v *Verifier) checkUser(user string) Check {
	check := Check{Name: "image user", Fatal: true}

	if user == "" || user == "root" || user == "0" {
		check.Detail = fmt.Sprintf("image runs as root (USER %q)", user)
		return check
	}

	uid := user
	if idx := strings.Index(user, ":"); idx != -1 {
		uid = user[:idx]
	}
	if n, err := strconv.Atoi(uid); err == nil && n == 0 {
		check.Detail = "image runs as uid 0"
		return check
	}

	want := strconv.Itoa(v.config.Identity.UID)
	if uid != want && user != v.config.Identity.User {
		check.Detail = fmt.Sprintf("image user %q does not match configured identity %s", user, want)
		return check
	}

	check.OK = true
	check.Detail = fmt.Sprintf("USER %s", user)
	return check
}

func (v *Verifier) checkWorkdir(workdir string) Check {
	check := Check{Name: "working directory", Fatal: true}
	if workdir != v.config.Workspace.Path {
		check.Detail = fmt.Sprintf("WORKDIR %q, want %q", workdir, v.config.Workspace.Path)
		return check
	}
	check.OK = true
	check.Detail = fmt.Sprintf("WORKDIR %s", workdir)
	return check
}

func (v *Verifier) checkPathEnv(env []string) Check {
	check := Check{Name: "module path", Fatal: true}
	prefix := v.config.Workspace.PathEnv + "="
	want := v.config.Workspace.SourceRootPath()

	for _, entry := range env {
		if !strings.HasPrefix(entry, prefix) {
			continue
		}
		got := strings.TrimPrefix(entry, prefix)
		if got != want {
			check.Detail = fmt.Sprintf("%s=%q, want %q", v.config.Workspace.PathEnv, got, want)
			return check
		}
		check.OK = true
		check.Detail = entry
		return check
	}

	check.Detail = fmt.Sprintf("%s is not set in the image", v.config.Workspace.PathEnv)
	return check
}

// probeRuntimeUID runs `id -u` inside a throwaway container and asserts
// the effective uid is non-zero. This catches images whose USER directive
// is right but whose entrypoint escalates back to root.
func (v *Verifier) probeRuntimeUID(ctx context.Context, imageRef string) (Check, error) {
	check := Check{Name: "runtime uid probe", Fatal: true}

	name := ProbeContainerName(v.config.Project, shortID())
	created, err := v.client.ContainerCreate(ctx, &container.Config{
		Image:      imageRef,
		Entrypoint: []string{"id", "-u"},
		Labels:     ProbeLabels(v.config.Project),
	}, nil, nil, nil, name)
	if err != nil {
		return check, err
	}
	defer func() {
		if err := v.client.ContainerRemove(ctx, created.ID, true); err != nil {
			logger.Debug().Err(err).Str("container", name).Msg("failed to remove probe container")
		}
	}()

	if err := v.client.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return check, err
	}

	waitCh, errCh := v.client.ContainerWait(ctx, created.ID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		if err != nil {
			return check, berth.ErrContainerWaitFailed(name, err)
		}
	case status := <-waitCh:
		if status.StatusCode != 0 {
			check.Detail = fmt.Sprintf("probe exited with status %d", status.StatusCode)
			return check, nil
		}
	case <-ctx.Done():
		return check, ctx.Err()
	}

	logs, err := v.client.ContainerLogs(ctx, created.ID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		return check, err
	}
	defer logs.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, logs); err != nil {
		return check, fmt.Errorf("failed to read probe output: %w", err)
	}

	uidStr := strings.TrimSpace(stdout.String())
	uid, err := strconv.Atoi(uidStr)
	if err != nil {
		check.Detail = fmt.Sprintf("probe produced unexpected output %q", uidStr)
		return check, nil
	}
	if uid == 0 {
		check.Detail = "container runs as uid 0"
		return check, nil
	}

	check.OK = true
	check.Detail = fmt.Sprintf("effective uid %d", uid)
	return check, nil
}
