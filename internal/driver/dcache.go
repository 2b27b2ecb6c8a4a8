package driver

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"cgull/internal/diag"
	"cgull/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты компиляции по хэшу исходника на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedDiagnostic is one flattened diagnostic record.
type CachedDiagnostic struct {
	Code     uint16
	Severity uint8
	Start    uint32
	End      uint32
	Message  string
}

// CachedClass is one rendered assembly file.
type CachedClass struct {
	Name string
	Text string
}

// DiskPayload stores everything needed to replay a compilation without
// running the pipeline again.
type DiskPayload struct {
	Schema      uint16
	Path        string
	HasErrors   bool
	Diagnostics []CachedDiagnostic
	Classes     []CachedClass
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt is OpenDiskCache with an explicit root, for tests.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key source.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог units для удобства очистки
	return filepath.Join(c.dir, "units", hexKey+".mp")
}

// Put serializes and writes a payload for the given content hash.
func (c *DiskCache) Put(key source.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = diskCacheSchemaVersion
	encoded, err := msgpack.Marshal(payload)
	if err != nil {
		return err
	}
	path := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, encoded, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Get loads a payload; corruption and schema mismatches read as a miss.
func (c *DiskCache) Get(key source.Digest) (*DiskPayload, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	encoded, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		return nil, false
	}
	var payload DiskPayload
	if err := msgpack.Unmarshal(encoded, &payload); err != nil {
		return nil, false
	}
	if payload.Schema != diskCacheSchemaVersion {
		return nil, false
	}
	return &payload, true
}

// PayloadFor flattens a finished unit into its cacheable form.
func PayloadFor(unit *Unit) *DiskPayload {
	payload := &DiskPayload{
		Path:      unit.Path,
		HasErrors: unit.Bag.HasErrors(),
	}
	for _, d := range unit.Bag.Items() {
		payload.Diagnostics = append(payload.Diagnostics, CachedDiagnostic{
			Code:     uint16(d.Code),
			Severity: uint8(d.Severity),
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Message:  d.Message,
		})
	}
	for name, text := range unit.RenderClasses() {
		payload.Classes = append(payload.Classes, CachedClass{Name: name, Text: text})
	}
	return payload
}

// ReplayDiagnostics rebuilds a bag from a cached payload.
func (p *DiskPayload) ReplayDiagnostics(file source.FileID, max int) *diag.Bag {
	bag := diag.NewBag(max)
	for _, d := range p.Diagnostics {
		bag.Add(diag.Diagnostic{
			Severity: diag.Severity(d.Severity),
			Code:     diag.Code(d.Code),
			Message:  d.Message,
			Primary:  source.Span{File: file, Start: d.Start, End: d.End},
		})
	}
	bag.Sort()
	return bag
}

// WriteClasses materializes the cached assembly files into outputDir.
func (p *DiskPayload) WriteClasses(outputDir string) error {
	_ = os.RemoveAll(outputDir)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	for _, class := range p.Classes {
		path := filepath.Join(outputDir, class.Name+".jasm")
		if err := os.WriteFile(path, []byte(class.Text), 0o644); err != nil {
			return err
		}
	}
	return nil
}
