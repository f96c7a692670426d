// Package refset holds the name/length/id mapping for every contig in a
// genome, the leaf-level dependency of the interval and partitioning
// machinery in this module.
package refset

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
)

// Entry is a single (name, length) pair, in the order it should appear in
// the reference table.
type Entry struct {
	Name   string
	Length int
}

// Table is an immutable, ordered name <-> length <-> id mapping for a set
// of contigs. The zero value is not usable; construct one with New,
// FromTSV, or FromSAMHeader.
type Table struct {
	entries   []Entry
	nameToLen map[string]int
	nameToID  map[string]int
	idToName  []string
}

// New builds a Table from an ordered list of entries. IDs are assigned
// densely, starting at zero, in the order the entries are given.
func New(entries []Entry) (*Table, error) {
	t := &Table{
		entries:   make([]Entry, len(entries)),
		nameToLen: make(map[string]int, len(entries)),
		nameToID:  make(map[string]int, len(entries)),
		idToName:  make([]string, len(entries)),
	}
	copy(t.entries, entries)
	for id, e := range t.entries {
		if e.Length <= 0 {
			return nil, errors.E(errors.Invalid, "refset: contig length must be positive:", e.Name)
		}
		if _, dup := t.nameToLen[e.Name]; dup {
			return nil, errors.E(errors.Invalid, "refset: duplicate contig name:", e.Name)
		}
		t.nameToLen[e.Name] = e.Length
		t.nameToID[e.Name] = id
		t.idToName[id] = e.Name
	}
	return t, nil
}

// FromTSV reads a two-column tab-delimited "name\tlength\n" reference table,
// as described in spec.md §6.
func FromTSV(r io.Reader) (*Table, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) != 2 {
			return nil, errors.E(errors.Invalid, "refset: malformed reference table line", lineNo)
		}
		length, err := strconv.Atoi(cols[1])
		if err != nil {
			return nil, errors.E(errors.Invalid, err, "refset: malformed contig length on line", lineNo)
		}
		entries = append(entries, Entry{Name: cols[0], Length: length})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(errors.IO, err)
	}
	return New(entries)
}

// FromSAMHeader builds a Table from the References() of a BAM/SAM header,
// mirroring the parallel references/lengths sequences exposed by an
// alignment-file header (spec.md §6).
func FromSAMHeader(h *sam.Header) (*Table, error) {
	refs := h.Refs()
	entries := make([]Entry, len(refs))
	for i, ref := range refs {
		entries[i] = Entry{Name: ref.Name(), Length: ref.Len()}
	}
	return New(entries)
}

// Len returns the number of contigs in the table.
func (t *Table) Len() int { return len(t.entries) }

// Names returns the contig names, in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns the (name, length) pairs, in table order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Length returns the length of the named contig, and whether it exists.
func (t *Table) Length(name string) (int, bool) {
	l, ok := t.nameToLen[name]
	return l, ok
}

// MustLength returns the length of the named contig, panicking if it is
// absent; intended for call sites that have already validated the name via
// Contains or a prior lookup.
func (t *Table) MustLength(name string) int {
	l, ok := t.nameToLen[name]
	if !ok {
		panic("refset: unknown contig: " + name)
	}
	return l
}

// ID returns the dense zero-based id of the named contig, and whether it
// exists.
func (t *Table) ID(name string) (int, bool) {
	id, ok := t.nameToID[name]
	return id, ok
}

// Name returns the contig name for a given id, and whether it is valid.
func (t *Table) Name(id int) (string, bool) {
	if id < 0 || id >= len(t.idToName) {
		return "", false
	}
	return t.idToName[id], true
}

// Contains reports whether name is a known contig.
func (t *Table) Contains(name string) bool {
	_, ok := t.nameToLen[name]
	return ok
}
