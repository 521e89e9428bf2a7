package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/df07/go-photoncore/pkg/scene"
)

var listCmd = &cobra.Command{
	Use:   "list <scenes-dir>",
	Short: "List PBRT scene files in a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	scenes, err := scene.ListPBRTScenes(args[0])
	if err != nil {
		return err
	}

	if len(scenes) == 0 {
		fmt.Println("no scene files found")
		return nil
	}

	for _, s := range scenes {
		if s.Description != "" {
			fmt.Printf("%-30s %s\n", s.DisplayName, s.Description)
		} else {
			fmt.Println(s.DisplayName)
		}
	}
	return nil
}
