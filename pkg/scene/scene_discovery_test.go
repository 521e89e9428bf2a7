package scene

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"cornell-empty", "Cornell Empty"},
		{"dragon_gold", "Dragon Gold"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestParsePBRTMetadata(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected SceneInfo
	}{
		{
			name: "complete_metadata.pbrt",
			content: `# Scene: Cornell Box
# Variant: Empty Room
# Description: Classic Cornell box with no objects
# Group: Cornell Variants

LookAt 0 0 5  0 0 0  0 1 0
Camera "perspective" "float fov" 40`,
			expected: SceneInfo{
				ID:          "pbrt:complete_metadata",
				Name:        "Cornell Box",
				DisplayName: "Cornell Box - Empty Room",
				Description: "Classic Cornell box with no objects",
				Group:       "Cornell Variants",
				Variant:     "Empty Room",
			},
		},
		{
			name: "partial_metadata.pbrt",
			content: `# Scene: Dragon
# Description: Dragon mesh scene

LookAt 0 0 5  0 0 0  0 1 0`,
			expected: SceneInfo{
				ID:          "pbrt:partial_metadata",
				Name:        "Dragon",
				DisplayName: "Dragon",
				Description: "Dragon mesh scene",
				Group:       "PBRT Scenes",
			},
		},
		{
			name:    "no_metadata.pbrt",
			content: `LookAt 0 0 5  0 0 0  0 1 0`,
			expected: SceneInfo{
				ID:          "pbrt:no_metadata",
				Name:        "No Metadata",
				DisplayName: "No Metadata",
				Group:       "PBRT Scenes",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tmpFile, err := os.CreateTemp("", tc.name)
			if err != nil {
				t.Fatalf("Failed to create temp file: %v", err)
			}
			defer os.Remove(tmpFile.Name())

			if _, err := tmpFile.WriteString(tc.content); err != nil {
				t.Fatalf("Failed to write temp file: %v", err)
			}
			tmpFile.Close()

			result, err := ParsePBRTMetadata(tmpFile.Name())
			if err != nil {
				t.Fatalf("ParsePBRTMetadata() error: %v", err)
			}

			tc.expected.FilePath = tmpFile.Name()

			if result.ID != tc.expected.ID {
				t.Errorf("ID = %q, want %q", result.ID, tc.expected.ID)
			}
			if result.Name != tc.expected.Name {
				t.Errorf("Name = %q, want %q", result.Name, tc.expected.Name)
			}
			if result.DisplayName != tc.expected.DisplayName {
				t.Errorf("DisplayName = %q, want %q", result.DisplayName, tc.expected.DisplayName)
			}
			if result.Description != tc.expected.Description {
				t.Errorf("Description = %q, want %q", result.Description, tc.expected.Description)
			}
			if result.Group != tc.expected.Group {
				t.Errorf("Group = %q, want %q", result.Group, tc.expected.Group)
			}
			if result.Variant != tc.expected.Variant {
				t.Errorf("Variant = %q, want %q", result.Variant, tc.expected.Variant)
			}
		})
	}
}

func TestParsePBRTMetadata_InvalidFile(t *testing.T) {
	_, err := ParsePBRTMetadata("nonexistent.pbrt")
	if err != nil {
		t.Errorf("ParsePBRTMetadata() should handle missing files gracefully")
	}
}

func TestParsePBRTMetadata_EdgeCases(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{
			name: "malformed_comments.pbrt",
			content: `#Scene: Missing space
#Variant:
# Description:   Extra spaces
#Group:

LookAt 0 0 5  0 0 0  0 1 0`,
		},
		{
			name: "mixed_content.pbrt",
			content: `# Scene: Test Scene
Some non-comment line
# This comment should be ignored
# Variant: Test Variant

LookAt 0 0 5  0 0 0  0 1 0`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tmpFile, err := os.CreateTemp("", tc.name)
			if err != nil {
				t.Fatalf("Failed to create temp file: %v", err)
			}
			defer os.Remove(tmpFile.Name())

			if _, err := tmpFile.WriteString(tc.content); err != nil {
				t.Fatalf("Failed to write temp file: %v", err)
			}
			tmpFile.Close()

			result, err := ParsePBRTMetadata(tmpFile.Name())
			if err != nil {
				t.Errorf("ParsePBRTMetadata() should handle malformed metadata: %v", err)
			}
			if result.ID == "" || result.DisplayName == "" {
				t.Error("ParsePBRTMetadata() should populate basic fields even with malformed metadata")
			}
		})
	}
}

func TestListPBRTScenesSortedByDisplayName(t *testing.T) {
	dir, err := os.MkdirTemp("", "pbrt_list_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	files := map[string]string{
		"zebra.pbrt": `# Scene: Zebra
LookAt 0 0 5 0 0 0 0 1 0`,
		"apple.pbrt": `# Scene: Apple
LookAt 0 0 5 0 0 0 0 1 0`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	scenes, err := ListPBRTScenes(dir)
	if err != nil {
		t.Fatalf("ListPBRTScenes() error: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(scenes))
	}
	if scenes[0].Name != "Apple" || scenes[1].Name != "Zebra" {
		t.Errorf("expected scenes sorted by display name, got %q then %q", scenes[0].Name, scenes[1].Name)
	}
}

func TestListPBRTScenesMissingDirectory(t *testing.T) {
	_, err := ListPBRTScenes(filepath.Join(os.TempDir(), "photoncore-scene-dir-that-does-not-exist"))
	if err == nil {
		t.Error("expected an error for a nonexistent scene directory")
	}
}
