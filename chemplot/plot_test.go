/*
 * plot_test.go
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package chemplot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/dockprep/dock"
)

var assignments = []dock.Assignment{
	{Label: "A:Zn1", ReceptorAtom: 2100, Distance: 3.2},
	{Label: "A:Zn1", ReceptorAtom: 2100, Distance: 4.1},
	{Label: "B:Zn2", ReceptorAtom: 2103, Distance: 2.7},
	{Label: dock.NoSite, ReceptorAtom: 2101, Distance: 8.9},
	{Label: dock.NoSite, Distance: -1},
}

func TestDistanceHistogram(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "dist.png")
	if err := DistanceHistogram(assignments, 5, dock.DefaultMaxDistance, "Test distances", name); err != nil {
		Te.Fatal(err)
	}
	if fi, err := os.Stat(name); err != nil || fi.Size() == 0 {
		Te.Errorf("no plot written: %v", err)
	}
	if err := DistanceHistogram(assignments[4:], 5, dock.DefaultMaxDistance, "Nothing", name); err == nil {
		Te.Error("expected an error with no distances")
	}
}

func TestSiteCounts(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "sites.svg")
	if err := SiteCounts(dock.Summarize(assignments), "Test sites", name); err != nil {
		Te.Fatal(err)
	}
	if fi, err := os.Stat(name); err != nil || fi.Size() == 0 {
		Te.Errorf("no plot written: %v", err)
	}
	if err := SiteCounts(dock.Summarize(nil), "Nothing", name); err == nil {
		Te.Error("expected an error with no sites")
	}
}

func TestThresholdLine(Te *testing.T) {
	_, line, err := distancePlot(assignments, 5, 4.5, "Threshold")
	if err != nil {
		Te.Fatal(err)
	}
	if line == nil || len(line.XYs) != 2 {
		Te.Fatal("no threshold line drawn")
	}
	for _, v := range line.XYs {
		if v.X != 4.5 {
			Te.Errorf("threshold line at %f, expected 4.5", v.X)
		}
	}
	if line.XYs[1].Y <= 0 {
		Te.Errorf("threshold line should reach the top bin, got %f", line.XYs[1].Y)
	}
	if _, line, err = distancePlot(assignments, 5, 0, "No threshold"); err != nil || line != nil {
		Te.Errorf("no line expected for a zero threshold, got %v %v", line, err)
	}
	name := filepath.Join(Te.TempDir(), "dist.svg")
	if err := DistanceHistogram(assignments, 5, 4.5, "Threshold", name); err != nil {
		Te.Fatal(err)
	}
}

func TestColors(Te *testing.T) {
	seen := make(map[[3]uint8]bool)
	for i := range palette {
		c := colors(i)
		if c.A != 255 {
			Te.Errorf("color %d is not opaque", i)
		}
		seen[[3]uint8{c.R, c.G, c.B}] = true
	}
	if len(seen) != len(palette) {
		Te.Errorf("expected %d different colors, got %d", len(palette), len(seen))
	}
	if colors(len(palette)) != colors(0) || colors(-1) != colors(1) {
		Te.Error("color keys should wrap around the palette")
	}
}
