package dockerfile

import _ "embed"

// DockerfileTemplate renders the image recipe. The stages are ordered so
// that everything cache-stable (base image, identity, workspace, dependency
// install) comes before the source copy, keeping rebuilds after source-only
// changes cheap.
//
//go:embed templates/Dockerfile.tmpl
var DockerfileTemplate string
