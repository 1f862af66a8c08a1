package usage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/huangsam/utilstudy/schema"
	"github.com/src-d/enry/v2"
)

var callPattern = regexp.MustCompile(`([A-Za-z0-9_]+)\(`)

// Tag is one JSON line of ctags output.
type Tag struct {
	Type string `json:"_type"`
	Name string `json:"name"`
	Path string `json:"path"`
	Line int    `json:"line"`
	Kind string `json:"kind"`
}

// Graph holds declared functions indexed by file and by name.
type Graph struct {
	Functions []*schema.FunctionNode
	ByFile    map[string][]*schema.FunctionNode
	ByName    map[string][]*schema.FunctionNode
	Files     []string

	nodes map[schema.FunctionKey]*schema.FunctionNode
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		ByFile: make(map[string][]*schema.FunctionNode),
		ByName: make(map[string][]*schema.FunctionNode),
		nodes:  make(map[schema.FunctionKey]*schema.FunctionNode),
	}
}

// Add registers a function and returns the node stored for its name, file
// and line. Same-named functions in other places are all kept.
func (g *Graph) Add(fn *schema.FunctionNode) *schema.FunctionNode {
	if known, ok := g.nodes[fn.Key()]; ok {
		return known
	}
	g.nodes[fn.Key()] = fn
	g.ByName[fn.Name] = append(g.ByName[fn.Name], fn)
	if _, ok := g.ByFile[fn.File]; !ok {
		g.Files = append(g.Files, fn.File)
	}
	g.ByFile[fn.File] = append(g.ByFile[fn.File], fn)
	g.Functions = append(g.Functions, fn)
	return fn
}

// ParseTags reads ctags JSON lines. Only function and method tags are kept.
func ParseTags(r io.Reader) (*Graph, error) {
	g := NewGraph()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var tag Tag
		if err := json.Unmarshal(line, &tag); err != nil {
			return nil, fmt.Errorf("tags line %d: %w", n, err)
		}
		if tag.Kind != "function" && tag.Kind != "method" {
			continue
		}
		g.Add(&schema.FunctionNode{Name: tag.Name, File: tag.Path, Line: tag.Line})
	}
	return g, scanner.Err()
}

// SharedNames counts declarations whose name is also declared elsewhere,
// beyond the first one. Calls to those names are linked to every candidate.
func (g *Graph) SharedNames() int {
	n := 0
	for _, fns := range g.ByName {
		n += len(fns) - 1
	}
	return n
}

// LoadTags parses the tags.json of a project.
func LoadTags(projectPath string) (*Graph, error) {
	f, err := os.Open(filepath.Join(projectPath, TagsFile))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ParseTags(f)
}

// DropVendored removes functions declared in files enry recognizes as vendored.
func (g *Graph) DropVendored() {
	vendored := func(fn *schema.FunctionNode) bool {
		if enry.IsVendor(fn.File) {
			delete(g.nodes, fn.Key())
			return true
		}
		return false
	}
	g.Functions = slices.DeleteFunc(g.Functions, vendored)
	for name, fns := range g.ByName {
		if fns = slices.DeleteFunc(fns, vendored); len(fns) == 0 {
			delete(g.ByName, name)
		} else {
			g.ByName[name] = fns
		}
	}
	g.Files = slices.DeleteFunc(g.Files, func(file string) bool {
		if enry.IsVendor(file) {
			delete(g.ByFile, file)
			return true
		}
		return false
	})
}

// SortByLine orders the functions of every file by descending start line.
func (g *Graph) SortByLine() {
	for _, fns := range g.ByFile {
		slices.SortStableFunc(fns, func(a, b *schema.FunctionNode) int { return b.Line - a.Line })
	}
}

// Caller returns the function of file whose start line is the highest one
// strictly below line. A function starting on line itself means no caller.
// SortByLine must have been called.
func (g *Graph) Caller(file string, line int) *schema.FunctionNode {
	for _, fn := range g.ByFile[file] {
		if fn.Line == line {
			return nil
		}
		if fn.Line < line {
			return fn
		}
	}
	return nil
}

// Link records a call edge once in each direction.
func Link(caller, callee *schema.FunctionNode) {
	if !slices.Contains(caller.Calls, callee) {
		caller.Calls = append(caller.Calls, callee)
	}
	if !slices.Contains(callee.CalledBy, caller) {
		callee.CalledBy = append(callee.CalledBy, caller)
	}
}

// FindCalls scans each indexed file under root for name( patterns and links
// the enclosing function to every function of that name. Unreadable files are
// skipped.
func (g *Graph) FindCalls(root string) error {
	g.SortByLine()
	for _, file := range g.Files {
		f, err := os.Open(filepath.Join(root, file))
		if err != nil {
			continue
		}
		err = g.scanFile(file, f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("scan %s: %w", file, err)
		}
	}
	return nil
}

func (g *Graph) scanFile(file string, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for n := 1; scanner.Scan(); n++ {
		for _, m := range callPattern.FindAllStringSubmatch(scanner.Text(), -1) {
			callees, ok := g.ByName[m[1]]
			if !ok {
				continue
			}
			caller := g.Caller(file, n)
			if caller == nil {
				continue
			}
			for _, callee := range callees {
				Link(caller, callee)
			}
		}
	}
	return scanner.Err()
}
