// Command hueslicer splits a binary-STL lithophane mesh into a grid of
// print-bed-sized tiles, grounded on cmd/caire/main.go's flag-driven
// single-file entry point.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	hueslicer "github.com/lollotek/huforge-splitter-cli"
	"github.com/lollotek/huforge-splitter-cli/utils"
)

const HelpBanner = `
┬ ┬┬ ┬┌─┐┌─┐┬  ┬┌─┐┌─┐┬─┐
├─┤│ │├┤ └─┐│  ││  ├┤ ├┬┘
┴ ┴└─┘└─┘└─┘┴─┘┴└─┘└─┘┴└─

Lithophane mesh tile splitter.
    Version: %s
`

// Version indicates the current build version.
var Version = "dev"

var (
	source       = flag.String("in", "", "Source binary-STL file")
	destDir      = flag.String("out", ".", "Destination directory for the tile files")
	resolution   = flag.Float64("resolution", 1.0, "Heightmap sampling resolution, mm/pixel")
	bedWidth     = flag.Float64("bed-width", 200, "Print bed width, mm")
	bedHeight    = flag.Float64("bed-height", 200, "Print bed height, mm")
	edgeThresh   = flag.Float64("tess-edge", 5.0, "Tessellation edge length threshold, mm")
	tessDepth    = flag.Int("tess-depth", 3, "Maximum tessellation recursion depth")
	snapQuantum  = flag.Float64("snap", 0.01, "Cap vertex snapping quantum, mm")
	simplifyEps  = flag.Float64("simplify", 2.0, "Boundary simplification epsilon, grid units")
	maskPath     = flag.String("mask", "", "Optional guide-mask file path (raw W*H bytes, non-zero means protected)")
	pipelined    = flag.Bool("pipelined", false, "Use the goroutine-pipelined orchestration instead of the serial one")
	queueDepth   = flag.Int("queue", 64, "Bounded channel depth for the pipelined orchestration")
)

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *source == "" {
		flag.Usage()
		log.Fatal(utils.DecorateText("\nPlease provide a source STL file with -in", utils.ErrorMessage))
	}

	cfg := hueslicer.DefaultConfig()
	cfg.Resolution = float32(*resolution)
	cfg.BedWidthMm = float32(*bedWidth)
	cfg.BedHeightMm = float32(*bedHeight)
	cfg.TessellationEdgeThresholdMm = float32(*edgeThresh)
	cfg.TessellationMaxDepth = *tessDepth
	cfg.SnapQuantumMm = float32(*snapQuantum)
	cfg.SimplifyEpsilonGridUnits = float32(*simplifyEps)
	cfg.Pipelined = *pipelined
	cfg.QueueDepth = *queueDepth

	spinner := utils.NewSpinner(fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ HUESLICER", utils.StatusMessage),
		utils.DecorateText("⇢ splitting mesh into tiles (be patient, it may take a while)...", utils.DefaultMessage),
	), time.Millisecond*80, true)
	spinner.Start()

	in, err := os.Open(*source)
	if err != nil {
		spinner.StopMsg = utils.DecorateText("failed to open source file", utils.ErrorMessage)
		spinner.Stop()
		log.Fatalf("hueslicer: %v", err)
	}
	defer in.Close()

	var guide *hueslicer.GuideMask
	if *maskPath != "" {
		guide, err = loadMask(*maskPath, in)
		if err != nil {
			spinner.StopMsg = utils.DecorateText("failed to load mask", utils.ErrorMessage)
			spinner.Stop()
			log.Fatalf("hueslicer: %v", err)
		}
	}

	if err := os.MkdirAll(*destDir, 0o755); err != nil {
		log.Fatalf("hueslicer: %v", err)
	}

	tilesWritten := 0
	factory := func(id hueslicer.TileID) (hueslicer.MeshWriter, error) {
		name := filepath.Join(*destDir, fmt.Sprintf("tile_r%d_c%d.stl", id.Row, id.Col))
		f, err := os.Create(name)
		if err != nil {
			return nil, err
		}
		tilesWritten++
		return f, nil
	}

	now := time.Now()
	layout, err := hueslicer.RunPipelined(in, guide, cfg, "hueslicer", factory, 256)
	if err != nil {
		spinner.StopMsg = utils.DecorateText("splitting failed...", utils.ErrorMessage)
		spinner.Stop()
		log.Fatalf("hueslicer: %v", err)
	}

	spinner.StopMsg = fmt.Sprintf("%s %s %s",
		utils.DecorateText("⚡ HUESLICER", utils.StatusMessage),
		utils.DecorateText("⇢", utils.DefaultMessage),
		utils.DecorateText("the mesh has been split successfully ✔", utils.SuccessMessage),
	)
	spinner.Stop()

	fmt.Fprintf(os.Stderr, "\n%d tiles written to %s in %s\n", tilesWritten, *destDir,
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
	for _, d := range layout.Diagnostics {
		fmt.Fprintf(os.Stderr, "%s\n", utils.DecorateText(fmt.Sprintf("[%s] %s", d.Kind, d.Detail), utils.StatusMessage))
	}
}

// loadMask reads a raw W*H byte guide mask sized to match the heightmap
// BuildHeightmap would derive from in, without disturbing in's read
// position for the subsequent pipeline run.
func loadMask(path string, in *os.File) (*hueslicer.GuideMask, error) {
	pos, err := in.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	defer in.Seek(pos, io.SeekStart)

	grid, _, err := hueslicer.BuildHeightmap(in, float32(*resolution))
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw) != grid.W*grid.H {
		return nil, fmt.Errorf("mask size %d does not match heightmap %dx%d", len(raw), grid.W, grid.H)
	}
	bits := make([]bool, len(raw))
	for i, b := range raw {
		bits[i] = b == 0
	}
	return &hueslicer.GuideMask{W: grid.W, H: grid.H, Bits: bits}, nil
}
