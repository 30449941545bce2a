package pipeline

import (
	"os"
	"strings"

	"github.com/fulmenhq/assetpipe/pkg/transform"
)

// builtinDefinitions are external tools wired over stdin/stdout. The
// first argument is the tool path; the rest are passed through.
func builtinDefinitions() []Definition {
	return []Definition{
		execDefinition("LessFilter", "lessc", "Compile LESS with lessc", "-"),
		execDefinition("ScssFilter", "sass", "Compile SCSS with Dart Sass", "--stdin", "--no-source-map"),
		execDefinition("CoffeeScriptFilter", "coffee", "Compile CoffeeScript", "--stdio", "--print", "--compile"),
		execDefinition("UglifyJsFilter", "uglifyjs", "Minify JavaScript with UglifyJS"),
		execDefinition("CleanCssFilter", "cleancss", "Minify CSS with clean-css"),
	}
}

func execDefinition(name, executable, description string, stdinArgs ...string) Definition {
	return Definition{
		Name:        name,
		Executable:  executable,
		Description: description,
		New: func(args []string, opts DefinitionOptions) (transform.Transformer, error) {
			toolArgs := append(append([]string(nil), args[1:]...), stdinArgs...)
			return &transform.Exec{
				Binary: args[0],
				Args:   toolArgs,
				Env:    nodeEnv(opts.SearchPaths),
			}, nil
		},
	}
}

// nodeEnv exposes node_paths to node based tools.
func nodeEnv(paths []string) map[string]string {
	if len(paths) == 0 {
		return nil
	}
	joined := strings.Join(paths, string(os.PathListSeparator))
	if existing := os.Getenv("NODE_PATH"); existing != "" {
		joined = joined + string(os.PathListSeparator) + existing
	}
	return map[string]string{"NODE_PATH": joined}
}
