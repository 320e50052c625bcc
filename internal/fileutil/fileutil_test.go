package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lepinkainen/vapor/internal/testutil"
)

type TestJSONData struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestWriteJSONFile_NewFile(t *testing.T) {
	// Setup
	env := testutil.NewTestEnv(t)
	filePath := filepath.Join(env.RootDir(), "test.json")
	testData := []TestJSONData{
		{ID: 220, Name: "Half-Life 2"},
		{ID: 440, Name: "Team Fortress 2"},
	}

	// Test
	written, err := WriteJSONFile(testData, filePath, true)

	// Assertions
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !written {
		t.Error("Expected file to be written")
	}

	// Verify file exists and has correct content
	if !FileExists(filePath) {
		t.Error("Expected file to exist")
	}

	// Read and verify content
	data, err := os.ReadFile(filePath)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}

	var result []TestJSONData
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	if len(result) != 2 {
		t.Errorf("Expected 2 items, got %d", len(result))
	}
	if result[0].ID != 220 || result[0].Name != "Half-Life 2" {
		t.Errorf("Expected first item to be {220, 'Half-Life 2'}, got %+v", result[0])
	}
}

func TestWriteJSONFile_SkipWithoutOverwrite(t *testing.T) {
	env := testutil.NewTestEnv(t)
	filePath := filepath.Join(env.RootDir(), "test.json")

	existing := []TestJSONData{{ID: 99, Name: "Old"}}
	written, err := WriteJSONFile(existing, filePath, true)
	if err != nil || !written {
		t.Fatalf("setup write failed: written=%v err=%v", written, err)
	}

	// Second write without overwrite must be skipped
	written, err = WriteJSONFile([]TestJSONData{{ID: 1, Name: "New"}}, filePath, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if written {
		t.Error("Expected write to be skipped when file exists and overwrite=false")
	}

	var result []TestJSONData
	if err := ReadJSONFile(filePath, &result); err != nil {
		t.Fatalf("ReadJSONFile failed: %v", err)
	}
	if result[0].ID != 99 {
		t.Errorf("Expected original content to survive, got %+v", result[0])
	}
}

func TestWriteJSONFile_CreatesParentDirs(t *testing.T) {
	env := testutil.NewTestEnv(t)
	filePath := filepath.Join(env.RootDir(), "nested", "dir", "out.json")

	written, err := WriteJSONFile(map[string]int{"Half-Life 2": 220}, filePath, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !written {
		t.Error("Expected file to be written")
	}
	if !FileExists(filePath) {
		t.Error("Expected nested file to exist")
	}
}

func TestReadJSONFile_MissingFile(t *testing.T) {
	env := testutil.NewTestEnv(t)

	var out map[string]int
	err := ReadJSONFile(filepath.Join(env.RootDir(), "absent.json"), &out)
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestFileExists(t *testing.T) {
	env := testutil.NewTestEnv(t)

	if FileExists(filepath.Join(env.RootDir(), "nope.json")) {
		t.Error("Expected FileExists to be false for missing file")
	}

	env.WriteFileString("present.json", "{}")
	if !FileExists(env.Path("present.json")) {
		t.Error("Expected FileExists to be true for existing file")
	}

	// Directories are not files
	if FileExists(env.RootDir()) {
		t.Error("Expected FileExists to be false for a directory")
	}

	// A path routed through a regular file fails stat with ENOTDIR,
	// which is not a not-exist error; it must still report false
	if FileExists(filepath.Join(env.Path("present.json"), "child")) {
		t.Error("Expected FileExists to be false for a path through a file")
	}
}
