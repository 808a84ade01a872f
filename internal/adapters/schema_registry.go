package adapters

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"bods-validate/internal/ports"
	"bods-validate/internal/types"
)

// SchemaRegistryAdapter implements SchemaRegistryPort from a YAML registry
// file.  Dialects are compiled on first use and cached; every document of a
// dialect is registered under its own $id, or under its file URL when it
// declares none.  Nothing is fetched from the network.
type SchemaRegistryAdapter struct {
	fs       afero.Fs
	baseDir  string
	registry types.RegistryFile

	mu       sync.Mutex
	compiled map[string]*compiledDialect
}

type compiledDialect struct {
	dialect  types.Dialect
	entryURL string
	schema   *jsonschema.Schema

	// docs holds the raw documents keyed by registration URL.
	docs  map[string]gjson.Result
	known map[string]struct{}
}

// NewSchemaRegistryAdapter reads and checks the registry file.  Schema
// documents are not touched until a dialect is first used.
func NewSchemaRegistryAdapter(fs afero.Fs, path string) (*SchemaRegistryAdapter, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read schema registry: " + path).
			WithCause(err)
	}

	var registry types.RegistryFile
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse schema registry: " + path).
			WithCause(err)
	}
	if len(registry.Dialects) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("schema registry lists no dialects: " + path)
	}
	for _, dialect := range registry.Dialects {
		if dialect.Version == "" || dialect.Entry == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("schema registry dialect needs version and entry: " + path)
		}
		if _, err := draftFor(dialect.Draft); err != nil {
			return nil, err
		}
	}

	log.Debug().
		Str("path", path).
		Int("dialects", len(registry.Dialects)).
		Str("default_version", registry.DefaultVersion).
		Msg("schema registry loaded")

	return &SchemaRegistryAdapter{
		fs:       fs,
		baseDir:  filepath.Dir(path),
		registry: registry,
		compiled: make(map[string]*compiledDialect),
	}, nil
}

func (a *SchemaRegistryAdapter) Dialects() []types.Dialect {
	return append([]types.Dialect(nil), a.registry.Dialects...)
}

func (a *SchemaRegistryAdapter) DefaultVersion() string {
	return a.registry.DefaultVersion
}

func (a *SchemaRegistryAdapter) Dialect(version string) (types.Dialect, bool) {
	for _, dialect := range a.registry.Dialects {
		if dialect.Version == version {
			return dialect, true
		}
	}
	return types.Dialect{}, false
}

func (a *SchemaRegistryAdapter) KnownFieldPaths(ctx context.Context, version string) (map[string]struct{}, error) {
	compiled, err := a.load(ctx, version)
	if err != nil {
		return nil, err
	}
	return compiled.known, nil
}

func (a *SchemaRegistryAdapter) load(ctx context.Context, version string) (*compiledDialect, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if compiled, ok := a.compiled[version]; ok {
		return compiled, nil
	}
	dialect, ok := a.Dialect(version)
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("schema version not in registry: " + version)
	}

	draft, err := draftFor(dialect.Draft)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = draft
	compiler.LoadURL = func(location string) (io.ReadCloser, error) {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("schema document not registered: " + location)
	}

	dir := dialect.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(a.baseDir, dir)
	}
	compiled := &compiledDialect{
		dialect: dialect,
		docs:    make(map[string]gjson.Result),
	}
	names := append([]string{dialect.Entry}, dialect.Documents...)
	for i, name := range names {
		file := filepath.Join(dir, name)
		data, err := afero.ReadFile(a.fs, file)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("failed to read schema document: " + file).
				WithCause(err)
		}
		if !gjson.ValidBytes(data) {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("schema document is not valid JSON: " + file)
		}
		doc := gjson.ParseBytes(data)
		location := documentURL(doc, file)
		if err := compiler.AddResource(location, bytes.NewReader(data)); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to register schema document: " + file).
				WithCause(err)
		}
		compiled.docs[location] = doc
		if i == 0 {
			compiled.entryURL = location
		}
	}

	schema, err := compiler.Compile(compiled.entryURL)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to compile schema version " + version).
			WithCause(err)
	}
	compiled.schema = schema
	compiled.known = compiled.knownFieldPaths()

	log.Ctx(ctx).Debug().
		Str("version", version).
		Int("documents", len(compiled.docs)).
		Int("known_paths", len(compiled.known)).
		Msg("schema dialect compiled")

	a.compiled[version] = compiled
	return compiled, nil
}

func draftFor(name string) (*jsonschema.Draft, error) {
	switch strings.TrimSpace(name) {
	case "":
		return jsonschema.Draft4, nil
	case "4", "draft-04":
		return jsonschema.Draft4, nil
	case "6", "draft-06":
		return jsonschema.Draft6, nil
	case "7", "draft-07":
		return jsonschema.Draft7, nil
	case "2019-09":
		return jsonschema.Draft2019, nil
	case "2020-12":
		return jsonschema.Draft2020, nil
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported schema draft: " + name)
	}
}

// documentURL is the $id of a document (draft 4 uses "id"), or the file URL.
func documentURL(doc gjson.Result, file string) string {
	for _, key := range []string{"$id", "id"} {
		if id := doc.Get(key); id.Type == gjson.String && id.Str != "" {
			if location, _, _ := strings.Cut(id.Str, "#"); location != "" {
				return location
			}
		}
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		abs = file
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

// resolve finds the raw schema value at an absolute location of the form
// "<document url>#<json pointer>".
func (c *compiledDialect) resolve(location string) (gjson.Result, bool) {
	docURL, pointer, _ := strings.Cut(location, "#")
	doc, ok := c.docs[docURL]
	if !ok {
		return gjson.Result{}, false
	}
	return lookupPointer(doc, pointer)
}

// resolveRef resolves a $ref found in the document registered at base and
// returns the absolute location it points at.
func (c *compiledDialect) resolveRef(base, ref string) (string, gjson.Result, bool) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", gjson.Result{}, false
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", gjson.Result{}, false
	}
	target := baseURL.ResolveReference(refURL)
	fragment := target.Fragment
	target.Fragment = ""
	location := target.String() + "#" + fragment
	node, ok := c.resolve(location)
	return location, node, ok
}

// lookupPointer walks an RFC 6901 pointer through a document.
func lookupPointer(doc gjson.Result, pointer string) (gjson.Result, bool) {
	node := doc
	if pointer == "" {
		return node, true
	}
	for _, segment := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		segment = strings.ReplaceAll(strings.ReplaceAll(segment, "~1", "/"), "~0", "~")
		switch {
		case node.IsArray():
			index, err := strconv.Atoi(segment)
			items := node.Array()
			if err != nil || index < 0 || index >= len(items) {
				return gjson.Result{}, false
			}
			node = items[index]
		case node.IsObject():
			var next gjson.Result
			found := false
			node.ForEach(func(key, value gjson.Result) bool {
				if key.Str == segment {
					next, found = value, true
					return false
				}
				return true
			})
			if !found {
				return gjson.Result{}, false
			}
			node = next
		default:
			return gjson.Result{}, false
		}
	}
	return node, true
}

// knownFieldPaths collects every property path the entry schema declares,
// following $ref into any registered document.  Paths carry no array
// indices, so items of an array share the path of the array.
func (c *compiledDialect) knownFieldPaths() map[string]struct{} {
	known := make(map[string]struct{})
	entry := c.docs[c.entryURL]
	walker := schemaWalker{dialect: c, known: known, active: make(map[string]struct{})}
	walker.walk(c.entryURL, entry, "")
	return known
}

type schemaWalker struct {
	dialect *compiledDialect
	known   map[string]struct{}

	// active holds the $ref targets on the current walk path; a target
	// reached again through itself is not expanded twice.
	active map[string]struct{}
}

func (w schemaWalker) walk(base string, node gjson.Result, prefix string) {
	if !node.IsObject() {
		return
	}

	if ref := node.Get("$ref"); ref.Type == gjson.String {
		location, target, ok := w.dialect.resolveRef(base, ref.Str)
		if _, recursive := w.active[location]; ok && !recursive {
			w.active[location] = struct{}{}
			docURL, _, _ := strings.Cut(location, "#")
			w.walk(docURL, target, prefix)
			delete(w.active, location)
		}
	}

	node.Get("properties").ForEach(func(key, value gjson.Result) bool {
		path := prefix + "/" + key.Str
		w.known[path] = struct{}{}
		w.walk(base, value, path)
		return true
	})

	items := node.Get("items")
	switch {
	case items.IsObject():
		w.walk(base, items, prefix)
	case items.IsArray():
		for _, item := range items.Array() {
			w.walk(base, item, prefix)
		}
	}
	for _, item := range node.Get("prefixItems").Array() {
		w.walk(base, item, prefix)
	}

	for _, keyword := range []string{"oneOf", "anyOf", "allOf"} {
		for _, branch := range node.Get(keyword).Array() {
			w.walk(base, branch, prefix)
		}
	}
	for _, keyword := range []string{"if", "then", "else"} {
		w.walk(base, node.Get(keyword), prefix)
	}
}

var _ ports.SchemaRegistryPort = (*SchemaRegistryAdapter)(nil)
