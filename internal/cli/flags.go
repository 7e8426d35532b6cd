package cli

import "github.com/spf13/pflag"

// The optional* helpers turn flags the user did not set into nil, so the
// services can tell "absent" from "zero".

func optionalInt64(fs *pflag.FlagSet, name string) *int64 {
	if !fs.Changed(name) {
		return nil
	}
	v, err := fs.GetInt64(name)
	if err != nil {
		return nil
	}
	return &v
}

func optionalInt(fs *pflag.FlagSet, name string) *int {
	if !fs.Changed(name) {
		return nil
	}
	v, err := fs.GetInt(name)
	if err != nil {
		return nil
	}
	return &v
}

func optionalBool(fs *pflag.FlagSet, name string) *bool {
	if !fs.Changed(name) {
		return nil
	}
	v, err := fs.GetBool(name)
	if err != nil {
		return nil
	}
	return &v
}

// workspaceFlag registers the --workspace flag used by the commands whose
// workspace is optional.
func workspaceFlag(fs *pflag.FlagSet) {
	fs.Int64("workspace", 0, "Workspace id (defaults follow the company's settings)")
}
