package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/df07/go-photoncore/pkg/integrator"
	"github.com/df07/go-photoncore/pkg/renderer"
	"github.com/df07/go-photoncore/pkg/scene"
)

var (
	renderOutput         string
	renderSPP            int
	renderWorkers        int
	renderWidth          int
	renderHeight         int
	renderIntegrator     string
	renderAODistance     float64
	supportedIntegrators = []string{"path", "randomwalk", "normals", "ao"}
)

var renderCmd = &cobra.Command{
	Use:   "render <scene.pbrt>",
	Short: "Render a PBRT scene file to a PNG image",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "out.png", "output PNG path")
	renderCmd.Flags().IntVar(&renderSPP, "spp", 0, "samples per pixel (0 = use the scene file's Sampler directive)")
	renderCmd.Flags().IntVar(&renderWorkers, "workers", 0, "render worker goroutines (0 = runtime.NumCPU())")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "output width override (0 = use the scene file's Film directive)")
	renderCmd.Flags().IntVar(&renderHeight, "height", 0, "output height override (0 = use the scene file's Film directive)")
	renderCmd.Flags().StringVar(&renderIntegrator, "integrator", "path", "light transport estimator: "+joinIntegrators())
	renderCmd.Flags().Float64Var(&renderAODistance, "ao-distance", 0, "max occlusion ray distance for --integrator ao (0 = unbounded)")
}

func runRender(cmd *cobra.Command, args []string) error {
	scenePath := args[0]

	var overrides []scene.CameraOverrides
	if renderWidth > 0 || renderHeight > 0 {
		overrides = append(overrides, scene.CameraOverrides{Width: renderWidth, Height: renderHeight})
	}

	sc, err := scene.NewPBRTScene(scenePath, overrides...)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	if renderSPP > 0 {
		sc.SamplingConfig.SamplesPerPixel = renderSPP
	}

	li, err := selectIntegrator(renderIntegrator, sc.SamplingConfig.MaxDepth)
	if err != nil {
		return err
	}

	start := time.Now()
	out, stats := renderer.Render(sc, li, renderWorkers)
	if err := out.WriteImage(renderOutput); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	fmt.Printf("rendered %dx%d, %d spp, %d tiles, %d samples in %s -> %s\n",
		sc.SamplingConfig.Width, sc.SamplingConfig.Height, sc.SamplingConfig.SamplesPerPixel,
		stats.TilesRendered, stats.SamplesRendered, time.Since(start).Round(time.Millisecond), renderOutput)
	return nil
}

func selectIntegrator(kind string, maxDepth int) (integrator.Li, error) {
	switch kind {
	case "path":
		return integrator.NewSimplePath(maxDepth), nil
	case "randomwalk":
		return integrator.NewRandomWalk(maxDepth), nil
	case "normals":
		return integrator.SurfaceNormal{}, nil
	case "ao":
		return integrator.NewAmbientOcclusion(renderAODistance), nil
	default:
		return nil, fmt.Errorf("unknown --integrator %q (want one of %s)", kind, joinIntegrators())
	}
}

func joinIntegrators() string {
	out := supportedIntegrators[0]
	for _, k := range supportedIntegrators[1:] {
		out += ", " + k
	}
	return out
}
