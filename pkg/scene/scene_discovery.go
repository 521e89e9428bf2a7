package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo is the metadata photoncore list reports for one discovered
// PBRT scene file.
type SceneInfo struct {
	ID          string
	Name        string
	DisplayName string
	Description string
	Group       string
	FilePath    string
	Variant     string
}

// ListPBRTScenes scans dir for *.pbrt files and returns their metadata,
// sorted by display name.
func ListPBRTScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("scene directory %q: %w", dir, err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.pbrt"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %q: %v", dir, err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		sceneInfo, err := ParsePBRTMetadata(filePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParsePBRTMetadata extracts scene metadata from a PBRT file's leading
// comment block (lines of the form "# Scene:", "# Variant:",
// "# Description:", "# Group:"), falling back to the filename when a
// field isn't present. It never errors on a missing or unreadable file,
// since a scene that can't be introspected should still show up in the
// listing under its filename.
func ParsePBRTMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          fmt.Sprintf("pbrt:%s", nameWithoutExt),
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       "PBRT Scenes",
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return sceneInfo, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "#") {
			break
		}

		content, ok := strings.CutPrefix(line, "# ")
		if !ok {
			continue
		}

		switch {
		case strings.HasPrefix(content, "Scene:"):
			sceneInfo.Name = strings.TrimSpace(strings.TrimPrefix(content, "Scene:"))
		case strings.HasPrefix(content, "Variant:"):
			sceneInfo.Variant = strings.TrimSpace(strings.TrimPrefix(content, "Variant:"))
		case strings.HasPrefix(content, "Description:"):
			sceneInfo.Description = strings.TrimSpace(strings.TrimPrefix(content, "Description:"))
		case strings.HasPrefix(content, "Group:"):
			sceneInfo.Group = strings.TrimSpace(strings.TrimPrefix(content, "Group:"))
		}
	}

	if sceneInfo.Variant != "" {
		sceneInfo.DisplayName = fmt.Sprintf("%s - %s", sceneInfo.Name, sceneInfo.Variant)
	} else {
		sceneInfo.DisplayName = sceneInfo.Name
	}

	return sceneInfo, scanner.Err()
}

// titleCase converts a filename-style string to title case, e.g.
// "cornell-empty" -> "Cornell Empty".
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
