package diagnosis

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func openTestRegistry(t *testing.T, dir string) *Registry {
	t.Helper()
	sources, err := DiscoverSources(dir, filepath.Join(dir, "Diagnosis_Code_NEW.csv"))
	if err != nil {
		t.Fatalf("DiscoverSources: %v", err)
	}
	r, err := Open(zerolog.Nop(), sources, filepath.Join(dir, "Diagnosis_Code_NEW.csv"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return r
}

func TestReadSource_RepairsContinuationRows(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Diagnosis_Code_INFECTIONS.csv", `Code,Description
001,Cholera
075,Infectious
,mononucleosis
A02,Salmonella,extra,columns
B01,
`)
	entries, stats, err := readSource(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("readSource: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d: %+v", len(entries), entries)
	}
	if entries[1].Code != "075" || entries[1].Description != "Infectious mononucleosis" {
		t.Errorf("continuation not merged: %+v", entries[1])
	}
	if entries[2].Description != "Salmonella" {
		t.Errorf("extra columns not ignored: %+v", entries[2])
	}
	if entries[0].Category != "INFECTIONS" {
		t.Errorf("category = %q", entries[0].Category)
	}
	if stats.Repaired != 1 || stats.Skipped != 1 || stats.Rows != 3 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestReadSource_LeadingContinuationSkipped(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.csv", "Code,Description\n,orphan text\nA01,Cholera\n")
	entries, stats, err := readSource(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("readSource: %v", err)
	}
	if len(entries) != 1 || stats.Skipped != 1 {
		t.Errorf("entries=%v stats=%+v", entries, stats)
	}
}

func TestReadSource_MissingHeader(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.csv", "Foo,Bar\nA01,Cholera\n")
	if _, _, err := readSource(path, zerolog.Nop()); err == nil {
		t.Fatal("expected error for missing Code/Description header")
	}
}

func TestDiscoverSources_SortedWithoutExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "Code,Description\n")
	writeFile(t, dir, "a.csv", "Code,Description\n")
	writeFile(t, dir, "Diagnosis_Code_NEW.csv", "Code,Description\n")
	writeFile(t, dir, "notes.txt", "ignored")

	got, err := DiscoverSources(dir, filepath.Join(dir, "Diagnosis_Code_NEW.csv"))
	if err != nil {
		t.Fatalf("DiscoverSources: %v", err)
	}
	want := []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")}
	if !slices.Equal(got, want) {
		t.Errorf("DiscoverSources = %v, want %v", got, want)
	}

	none, err := DiscoverSources(filepath.Join(dir, "missing"), "")
	if err != nil || len(none) != 0 {
		t.Errorf("missing dir: %v, %v", none, err)
	}
}

func TestOpen_LastLoadedWinsAndDedup(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "Code,Description\nA01,Cholera\nA02,Typhoid\n")
	writeFile(t, dir, "b.csv", "Code,Description\nA01,Cholera due to Vibrio\nA02,Typhoid\n")

	r := openTestRegistry(t, dir)
	e, ok := r.Find("A01")
	if !ok || e.Description != "Cholera due to Vibrio" {
		t.Errorf("Find(A01) = %+v, %v", e, ok)
	}
	// A01 has two distinct descriptions; A02 is an exact duplicate.
	if r.Len() != 3 {
		t.Errorf("Len = %d, want 3", r.Len())
	}
}

func TestOpen_NoUsableRowsIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "Code,Description\n")
	writeFile(t, dir, "b.csv", "garbage\n")
	sources, _ := DiscoverSources(dir, "")
	_, err := Open(zerolog.Nop(), append(sources, filepath.Join(dir, "gone.csv")), filepath.Join(dir, "Diagnosis_Code_NEW.csv"))
	if !errors.Is(err, ErrNoReferenceData) {
		t.Fatalf("err = %v, want ErrNoReferenceData", err)
	}
}

func TestOpen_SkipsBadSourceKeepsGood(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "Foo\nbar\n")
	writeFile(t, dir, "b.csv", "Code,Description\nA01,Cholera\n")
	r := openTestRegistry(t, dir)
	stats := r.Stats()
	if len(stats) != 2 || stats[0].Err == nil || stats[1].Rows != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestFind_DisplayForm(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "Code,Description\nA01,Cholera\n")
	r := openTestRegistry(t, dir)
	if _, ok := r.Find("A01 - Cholera (a)"); !ok {
		t.Error("display form not resolved")
	}
	if _, ok := r.Find("Z99"); ok {
		t.Error("unknown code resolved")
	}
}

func TestSearch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "Code,Description\nA01,Cholera\nA02,Typhoid fever\nB05,Measles\n")
	r := openTestRegistry(t, dir)

	var codes []string
	for e := range r.Search("CHOL") {
		codes = append(codes, e.Code)
	}
	if !slices.Equal(codes, []string{"A01"}) {
		t.Errorf("Search(CHOL) = %v", codes)
	}

	codes = codes[:0]
	for e := range r.Search("a0") {
		codes = append(codes, e.Code)
	}
	if !slices.Equal(codes, []string{"A01", "A02"}) {
		t.Errorf("Search(a0) = %v", codes)
	}

	// Early break must stop iteration.
	n := 0
	for range r.Search("") {
		n++
		break
	}
	if n != 1 {
		t.Errorf("break did not stop iteration, n=%d", n)
	}
}

func TestAdd_ThenFindAndDuplicate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "Code,Description\nA01,Cholera\n")
	r := openTestRegistry(t, dir)

	if r.Extends("D1") {
		t.Fatal("Extends(D1) before Add")
	}
	if err := r.Add("D1", "desc"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !r.Extends(" D1 ") {
		t.Error("Extends(D1) false after Add")
	}
	e, ok := r.Find("D1")
	if !ok || e.Description != "desc" || e.Category != "NEW" {
		t.Fatalf("Find(D1) = %+v, %v", e, ok)
	}
	lenBefore := r.Len()

	err := r.Add("D1", "something else")
	if !errors.Is(err, ErrDuplicateCode) {
		t.Fatalf("second Add err = %v, want ErrDuplicateCode", err)
	}
	if e, _ := r.Find("D1"); e.Description != "desc" {
		t.Errorf("duplicate Add changed registry: %+v", e)
	}
	if r.Len() != lenBefore {
		t.Errorf("Len changed from %d to %d", lenBefore, r.Len())
	}

	data, err := os.ReadFile(filepath.Join(dir, "Diagnosis_Code_NEW.csv"))
	if err != nil {
		t.Fatalf("read extension table: %v", err)
	}
	if string(data) != "Code,Description\nD1,desc\n" {
		t.Errorf("extension table = %q", data)
	}

	found := false
	for e := range r.Search("desc") {
		found = found || e.Code == "D1"
	}
	if !found {
		t.Error("added code not visible to Search")
	}
}

func TestAdd_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "Code,Description\nA01,Cholera\n")
	writeFile(t, dir, "Diagnosis_Code_NEW.csv", "Code,Description\nX1,First")

	r := openTestRegistry(t, dir)
	if err := r.Add("X2", "Second"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Add("X1", "Again"); !errors.Is(err, ErrDuplicateCode) {
		t.Errorf("Add(X1) err = %v, want ErrDuplicateCode", err)
	}

	r2 := openTestRegistry(t, dir)
	for _, code := range []string{"X1", "X2"} {
		if _, ok := r2.Find(code); !ok {
			t.Errorf("%s missing after reopen", code)
		}
	}
	data, _ := os.ReadFile(filepath.Join(dir, "Diagnosis_Code_NEW.csv"))
	if strings.Count(string(data), "Code,Description") != 1 {
		t.Errorf("header duplicated: %q", data)
	}
}

func TestAdd_Incomplete(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "Code,Description\nA01,Cholera\n")
	r := openTestRegistry(t, dir)
	if err := r.Add(" ", "desc"); !errors.Is(err, ErrIncompleteEntry) {
		t.Errorf("err = %v", err)
	}
	if err := r.Add("Q1", ""); !errors.Is(err, ErrIncompleteEntry) {
		t.Errorf("err = %v", err)
	}
}
