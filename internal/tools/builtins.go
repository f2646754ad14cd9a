package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Toolset constructs the built-in tool handlers. A non-empty root
// confines read_file and list_files to that directory tree; an empty
// root leaves paths unrestricted.
type Toolset struct {
	root string
}

// NewToolset creates a Toolset. The root, when set, is resolved to an
// absolute path once so later containment checks compare like with like.
func NewToolset(root string) *Toolset {
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
		root = filepath.Clean(root)
	}
	return &Toolset{root: root}
}

// Builtin pairs a descriptor with its handler for registration.
type Builtin struct {
	Descriptor Descriptor
	Handler    Handler
}

// Builtins returns the built-in tools in their canonical order:
// echo, read_file, list_files.
func (ts *Toolset) Builtins() []Builtin {
	return []Builtin{
		{
			Descriptor: Descriptor{
				Name:        "echo",
				Description: "Echo back the input message",
				Params: []Param{
					{Name: "message", Type: "string", Description: "Message to echo back", Required: true},
				},
			},
			Handler: ts.Echo,
		},
		{
			Descriptor: Descriptor{
				Name:        "read_file",
				Description: "Read contents of a file",
				Params: []Param{
					{Name: "path", Type: "string", Description: "Path to the file to read", Required: true},
				},
			},
			Handler: ts.ReadFile,
		},
		{
			Descriptor: Descriptor{
				Name:        "list_files",
				Description: "List files in a directory",
				Params: []Param{
					{Name: "directory", Type: "string", Description: "Directory path to list", Required: true},
				},
			},
			Handler: ts.ListFiles,
		},
	}
}

// Echo returns the message argument unchanged.
func (ts *Toolset) Echo(_ context.Context, args map[string]any) (map[string]any, error) {
	msg, err := stringArg(args, "message")
	if err != nil {
		return nil, err
	}
	return map[string]any{"message": msg}, nil
}

// ReadFile reads a file and returns its contents as text.
func (ts *Toolset) ReadFile(_ context.Context, args map[string]any) (map[string]any, error) {
	path, err := stringArg(args, "path")
	if err != nil {
		return nil, err
	}

	resolved, rerr := ts.resolve(path)
	if rerr != nil {
		return nil, rerr
	}

	info, serr := os.Stat(resolved)
	if serr != nil {
		if os.IsNotExist(serr) {
			return nil, Errorf(CategoryFileNotFound, "file not found: %s", path)
		}
		return nil, Errorf(CategoryExecution, "failed to stat %s: %v", path, serr)
	}
	if info.IsDir() {
		return nil, Errorf(CategoryFileNotFound, "not a file: %s", path)
	}

	data, derr := os.ReadFile(resolved)
	if derr != nil {
		return nil, Errorf(CategoryExecution, "failed to read %s: %v", path, derr)
	}
	return map[string]any{"content": string(data)}, nil
}

// ListFiles returns directory entry names. os.ReadDir sorts entries by
// name, so the sequence is deterministic across calls.
func (ts *Toolset) ListFiles(_ context.Context, args map[string]any) (map[string]any, error) {
	dir, err := stringArg(args, "directory")
	if err != nil {
		return nil, err
	}

	resolved, rerr := ts.resolve(dir)
	if rerr != nil {
		return nil, rerr
	}

	info, serr := os.Stat(resolved)
	if serr != nil {
		if os.IsNotExist(serr) {
			return nil, Errorf(CategoryDirNotFound, "directory not found: %s", dir)
		}
		return nil, Errorf(CategoryExecution, "failed to stat %s: %v", dir, serr)
	}
	if !info.IsDir() {
		return nil, Errorf(CategoryDirNotFound, "not a directory: %s", dir)
	}

	entries, derr := os.ReadDir(resolved)
	if derr != nil {
		return nil, Errorf(CategoryExecution, "failed to list %s: %v", dir, derr)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return map[string]any{"files": names}, nil
}

// resolve maps a tool-supplied path into the configured root. Escapes,
// including symlink escapes, fail with invalid_argument.
func (ts *Toolset) resolve(p string) (string, *Error) {
	if ts.root == "" {
		return p, nil
	}

	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(ts.root, abs)
	}
	abs = filepath.Clean(abs)
	if !within(ts.root, abs) {
		return "", Errorf(CategoryInvalidArgument, "path %q escapes the configured root", p)
	}

	// A symlink inside the root can still point outside it.
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		rootResolved := ts.root
		if rr, rerr := filepath.EvalSymlinks(ts.root); rerr == nil {
			rootResolved = rr
		}
		if !within(rootResolved, resolved) {
			return "", Errorf(CategoryInvalidArgument, "path %q escapes the configured root", p)
		}
	}

	return abs, nil
}

// within reports whether p is root itself or beneath it.
func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// stringArg extracts a required string argument.
func stringArg(args map[string]any, key string) (string, *Error) {
	v, ok := args[key]
	if !ok {
		return "", Errorf(CategoryInvalidArgument, "missing required argument: %s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", Errorf(CategoryInvalidArgument, "argument %s must be a string", key)
	}
	return s, nil
}
