package picker

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/hexgrid"
)

const (
	// trianglesPerTile is the number of triangles a hexagon is fanned into.
	trianglesPerTile = 6

	// VerticesPerTile is the number of vertices (and colors) emitted per tile.
	VerticesPerTile = trianglesPerTile * 3
)

// BuildHexMapMesh generates the pick geometry for a whole map: for every tile in row-major order, six triangles
// (center+corner[i], center+corner[i+1], center), each vertex colored with EncodeTileColor(tile).
// Rows are generated in parallel; the output order does not depend on scheduling.
//
// Parameters:
//   - geom: the hex geometry
//   - size: the map size in tiles
//
// Returns:
//   - []common.Vec3: 18 positions per tile
//   - []common.Color3: 18 colors per tile, matching positions
func BuildHexMapMesh(geom hexgrid.Geometry, size common.Size2) ([]common.Vec3, []common.Color3) {
	pool := worker.NewDynamicWorkerPool(min(runtime.NumCPU(), max(size.H, 1)), 256, time.Second)
	return buildHexMapMesh(pool, geom, size)
}

// buildHexMapMesh fills preallocated slices, one pool task per row. Each task writes only its own row's range.
func buildHexMapMesh(pool worker.DynamicWorkerPool, geom hexgrid.Geometry, size common.Size2) ([]common.Vec3, []common.Color3) {
	if size.W <= 0 || size.H <= 0 {
		return nil, nil
	}

	positions := make([]common.Vec3, size.Area()*VerticesPerTile)
	colors := make([]common.Color3, len(positions))
	rowStride := size.W * VerticesPerTile

	var corners [trianglesPerTile + 1]common.Vec3
	for i := range corners {
		corners[i] = geom.CornerOffset(i)
	}

	var wg sync.WaitGroup
	for y := 0; y < size.H; y++ {
		wg.Add(1)
		row := y
		pool.SubmitTask(worker.Task{
			ID: row,
			Do: func() (any, error) {
				defer wg.Done()
				base := row * rowStride
				for x := 0; x < size.W; x++ {
					tile := common.TileCoord{X: x, Y: row}
					center := geom.TileToWorld(tile)
					color := EncodeTileColor(tile)
					i := base + x*VerticesPerTile
					for n := 0; n < trianglesPerTile; n++ {
						positions[i] = center.Add(corners[n])
						positions[i+1] = center.Add(corners[n+1])
						positions[i+2] = center
						colors[i], colors[i+1], colors[i+2] = color, color, color
						i += 3
					}
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	return positions, colors
}
