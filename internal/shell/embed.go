package shell

import _ "embed"

// Hook templates compiled into the binary.

//go:embed templates/bash.sh.tmpl
var bashTemplate string

//go:embed templates/zsh.sh.tmpl
var zshTemplate string
