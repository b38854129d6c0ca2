package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/vbxq/prng3d/pkg/engine"
	"github.com/vbxq/prng3d/pkg/eval"
	"github.com/vbxq/prng3d/pkg/mesh"
	"github.com/vbxq/prng3d/pkg/present"
)

// Headless demo: runs the full pipeline against an in-memory device. A real
// frontend swaps in wgpudev.Device and draws from the presentation buffers.
func main() {
	engine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	dev := present.NewMemDevice()
	eng, err := engine.New(eval.New(), dev, engine.WithMaxPoints(1_000_000))
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine init: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eng.Start(ctx)
	defer eng.Close()

	// ========================================================================
	// STREAMING POINTS
	// ========================================================================

	preset := eval.RngExamples[0]
	fmt.Printf("compiling %q\n", preset.Name)
	eng.UpdateCode(preset.Code)

	runFrames(eng, 2*time.Second)

	st := eng.Stats()
	fmt.Printf("points: rendered=%d calls/s=%d batch=%d dropped=%d/%d bottleneck=%s\n",
		st.PointsRendered.Load(),
		st.RngCallsPerSec.Load(),
		st.CurrentBatchSize.Load(),
		st.DroppedBatches.Load(),
		st.TotalBatches.Load(),
		st.Bottleneck(),
	)
	if msg := eng.LastError(); msg != "" {
		fmt.Printf("rng error: %s\n", msg)
	}

	// ========================================================================
	// MATH MESHES
	// ========================================================================

	eng.SetAppMode(engine.ModeMath)

	for _, ex := range eval.MeshExamples {
		if ex.Kind != eval.Surface {
			continue
		}
		fmt.Printf("sampling surface %q\n", ex.Name)
		eng.CompileSurface(ex.Code,
			mesh.Range{Min: ex.XRange[0], Max: ex.XRange[1]},
			mesh.Range{Min: ex.YRange[0], Max: ex.YRange[1]},
			100)
		break
	}

	runFrames(eng, time.Second)

	_, _, _, vertexCount, indexCount := eng.MeshBuffers().Surface()
	zMin, zMax := eng.MeshBuffers().ZRange()
	fmt.Printf("surface: vertices=%d indices=%d z=[%g, %g]\n",
		vertexCount, indexCount, zMin, zMax)
	if msg := eng.LastError(); msg != "" {
		fmt.Printf("mesh error: %s\n", msg)
	}
}

// runFrames advances the engine at roughly display cadence.
func runFrames(eng *engine.Engine, d time.Duration) {
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		<-ticker.C
		if err := eng.Frame(); err != nil {
			fmt.Fprintf(os.Stderr, "frame: %v\n", err)
			return
		}
	}
}
