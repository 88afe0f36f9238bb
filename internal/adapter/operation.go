package adapter

// Op is the class of a tool. Every adapter publishes init, build and
// version; serve, check and clean depend on what the toolchain supports.
type Op string

const (
	OpInit    Op = "init"
	OpBuild   Op = "build"
	OpServe   Op = "serve"
	OpCheck   Op = "check"
	OpClean   Op = "clean"
	OpVersion Op = "version"
)

// RequiredOps is the minimum surface of a conforming adapter.
var RequiredOps = []Op{OpInit, OpBuild, OpVersion}

// MinTools is the minimum number of tools a conforming adapter publishes.
const MinTools = 4

// Invocation is the fully parameterized process call an operation maps to.
type Invocation struct {
	Args []string
	Dir  string
	Env  []string
}

// ArgsFunc turns validated input into an argument vector. It never sees
// unvalidated input and must not concatenate a command line.
type ArgsFunc func(in Input) Invocation

type Operation struct {
	Op          Op
	Description string
	Schema      *Schema
	Args        ArgsFunc
}

func ptr(f float64) *float64 { return &f }

var (
	pathProp = Property{
		Type:        TypeString,
		Description: "Site root directory",
		IsPath:      true,
	}
	outputProp = Property{
		Type:        TypeString,
		Description: "Output directory for the generated site",
		IsPath:      true,
	}
)

// DefaultSchema is the input schema used when an operation does not supply
// its own.
func DefaultSchema(op Op) Schema {
	switch op {
	case OpInit:
		return ObjectSchema(map[string]Property{
			"path": {Type: TypeString, Description: "Directory to create the new site in", IsPath: true},
			"name": {Type: TypeString, Description: "Site or project name"},
		}, "path")
	case OpBuild:
		return ObjectSchema(map[string]Property{
			"path":     pathProp,
			"output":   outputProp,
			"drafts":   {Type: TypeBoolean, Description: "Include draft content"},
			"base_url": {Type: TypeString, Description: "Base URL to build the site for"},
		}, "path")
	case OpServe:
		return ObjectSchema(map[string]Property{
			"path":   pathProp,
			"port":   {Type: TypeInteger, Description: "Port for the development server", Minimum: ptr(1), Maximum: ptr(65535)},
			"drafts": {Type: TypeBoolean, Description: "Include draft content"},
		}, "path")
	case OpCheck:
		return ObjectSchema(map[string]Property{
			"path": pathProp,
		}, "path")
	case OpClean:
		return ObjectSchema(map[string]Property{
			"path":   pathProp,
			"output": outputProp,
		}, "path")
	default:
		return ObjectSchema(nil)
	}
}

// Fields narrows the default schema of op to path and the named options, for
// toolchains that cannot honour every default option. Undeclared options are
// then rejected as invalid input instead of being dropped. Naming an option
// the default schema lacks panics.
func Fields(op Op, names ...string) *Schema {
	def := DefaultSchema(op)
	props := make(map[string]Property, len(names)+1)
	if p, ok := def.Properties["path"]; ok {
		props["path"] = p
	}
	for _, name := range names {
		p, ok := def.Properties[name]
		if !ok {
			panic("adapter: " + string(op) + " has no option " + name)
		}
		props[name] = p
	}

	var required []string
	for _, name := range def.Required {
		if _, ok := props[name]; ok {
			required = append(required, name)
		}
	}
	s := ObjectSchema(props, required...)
	return &s
}

func defaultDescription(display string, op Op) string {
	switch op {
	case OpInit:
		return "Initialize a new " + display + " site"
	case OpBuild:
		return "Build a " + display + " site"
	case OpServe:
		return "Start the " + display + " development server"
	case OpCheck:
		return "Check a " + display + " site for errors"
	case OpClean:
		return "Remove " + display + " build output"
	case OpVersion:
		return "Get the installed " + display + " version"
	default:
		return display + " " + string(op)
	}
}
