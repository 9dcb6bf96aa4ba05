// Package figures renders the run artifacts as PNG images: total energy
// vs time, the space-time energy map, and the localization profile.
package figures

import (
	"bufio"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/mohamedorhan/eemring/internal/energy"
	"github.com/mohamedorhan/eemring/internal/localize"
)

const (
	TotalEnergyFile = "total_energy.png"
	EnergyMapFile   = "energy_map.png"
	ProfileFile     = "memory_profile.png"
)

// WriteAll renders the three standard figures into dir, creating it if
// needed. Called only after a successful solve so a failed run leaves no
// partial artifacts behind.
func WriteAll(dir string, t []float64, s *energy.Series, p localize.Profile) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}
	if err := SaveTotalEnergy(filepath.Join(dir, TotalEnergyFile), t, s.Total); err != nil {
		return err
	}
	if err := SaveEnergyMap(filepath.Join(dir, EnergyMapFile), t, s.PerCell); err != nil {
		return err
	}
	return SaveProfile(filepath.Join(dir, ProfileFile), p)
}

// SaveTotalEnergy plots E_tot(t).
func SaveTotalEnergy(path string, t, total []float64) error {
	if len(t) != len(total) || len(t) == 0 {
		return fmt.Errorf("figures: total energy data invalid")
	}

	p := plot.New()
	p.Title.Text = "Total Energy Decay"
	p.X.Label.Text = "Time [s]"
	p.Y.Label.Text = "Energy [J]"
	stylePlot(p)

	pts := make(plotter.XYs, len(t))
	for i := range t {
		pts[i].X = t[i]
		pts[i].Y = total[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line, plotter.NewGrid())

	return savePNG(p, 8.0, 5.0, path)
}

// SaveEnergyMap plots the space-time map of per-cell energy, cells on the
// vertical axis and time on the horizontal.
func SaveEnergyMap(path string, t []float64, perCell [][]float64) error {
	if len(t) == 0 || len(t) != len(perCell) || len(perCell[0]) == 0 {
		return fmt.Errorf("figures: energy map data invalid")
	}

	p := plot.New()
	p.Title.Text = "Energy Map - RLC Ring"
	p.X.Label.Text = "Time [s]"
	p.Y.Label.Text = "Cell index"
	stylePlot(p)

	grid := &energyGrid{t: t, e: perCell}
	pal := moreland.SmoothBlueRed().Palette(255)
	hm := plotter.NewHeatMap(grid, pal)
	p.Add(hm)

	return savePNG(p, 9.0, 5.0, path)
}

// SaveProfile plots the smoothed time-averaged energy per cell and marks
// the detected memory cell with a dashed vertical line.
func SaveProfile(path string, prof localize.Profile) error {
	if len(prof.Smoothed) == 0 {
		return fmt.Errorf("figures: localization profile is empty")
	}

	p := plot.New()
	p.Title.Text = "Energy Localization Profile"
	p.X.Label.Text = "Cell index"
	p.Y.Label.Text = "Average energy [J]"
	stylePlot(p)

	pts := make(plotter.XYs, len(prof.Smoothed))
	maxE := prof.Smoothed[0]
	for i, e := range prof.Smoothed {
		pts[i].X = float64(i)
		pts[i].Y = e
		if e > maxE {
			maxE = e
		}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(2.0)

	marker, err := plotter.NewLine(plotter.XYs{
		{X: float64(prof.MemoryCell), Y: 0},
		{X: float64(prof.MemoryCell), Y: maxE},
	})
	if err != nil {
		return err
	}
	marker.LineStyle.Color = color.RGBA{R: 200, A: 255}
	marker.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}

	p.Add(line, marker, plotter.NewGrid())
	p.Legend.Add("average energy", line)
	p.Legend.Add(fmt.Sprintf("memory cell = %d", prof.MemoryCell), marker)

	return savePNG(p, 8.0, 4.0, path)
}

// energyGrid adapts an energy matrix to plotter.GridXYZ: columns are time
// samples, rows are cells.
type energyGrid struct {
	t []float64
	e [][]float64
}

func (g *energyGrid) Dims() (int, int)   { return len(g.t), len(g.e[0]) }
func (g *energyGrid) Z(c, r int) float64 { return g.e[c][r] }
func (g *energyGrid) X(c int) float64    { return g.t[c] }
func (g *energyGrid) Y(r int) float64    { return float64(r) }

func stylePlot(p *plot.Plot) {
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(8)

	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.X.Label.Padding = vg.Points(6)
	p.Y.Label.Padding = vg.Points(6)

	p.X.Tick.Label.Font.Size = vg.Points(10)
	p.Y.Tick.Label.Font.Size = vg.Points(10)
}

func savePNG(p *plot.Plot, widthIn, heightIn float64, path string) error {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(300),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	defer bw.Flush()

	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}
