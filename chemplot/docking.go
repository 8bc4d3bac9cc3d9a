/*
 * docking.go, part of dockprep
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
*/

// Package chemplot produces diagnostic plots for docking site assignments.
package chemplot

import (
	"fmt"
	"image/color"

	"github.com/rmera/dockprep/dock"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

// DistanceHistogram plots a histogram, with bins bins, of the distances between the ligands and their nearest site
// in assignments, and saves it to filename. The format is given by the extension of filename (png, svg, pdf, etc.).
// A dashed line marks threshold, the distance used to assign the sites. No line is drawn if threshold is not positive.
func DistanceHistogram(assignments []dock.Assignment, bins int, threshold float64, title, filename string) error {
	p, _, err := distancePlot(assignments, bins, threshold, title)
	if err != nil {
		return fmt.Errorf("chemplot: DistanceHistogram: %w", err)
	}
	if err := p.Save(5*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("chemplot: DistanceHistogram: %w", err)
	}
	return nil
}

// distancePlot builds the plot for DistanceHistogram. It also returns the threshold line, nil if not drawn.
func distancePlot(assignments []dock.Assignment, bins int, threshold float64, title string) (*plot.Plot, *plotter.Line, error) {
	d := dock.Distances(assignments)
	if len(d) == 0 {
		return nil, nil, fmt.Errorf("no distances to plot")
	}
	if bins < 1 {
		bins = 10
	}
	p := basicPlot(title, "Distance to nearest site (A)", "Ligands")
	h, err := plotter.NewHist(plotter.Values(d), bins)
	if err != nil {
		return nil, nil, err
	}
	h.FillColor = colors(3)
	p.Add(h)
	if threshold <= 0 {
		return p, nil, nil
	}
	max := 0.0
	for _, b := range h.Bins {
		if b.Weight > max {
			max = b.Weight
		}
	}
	line, err := plotter.NewLine(plotter.XYs{{X: threshold, Y: 0}, {X: threshold, Y: max}})
	if err != nil {
		return nil, nil, err
	}
	line.LineStyle.Color = colors(0)
	line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("%.1f A", threshold), line)
	return p, line, nil
}

// SiteCounts plots the number of ligands assigned to each site in summary
// as a bar chart, and saves it to filename.
func SiteCounts(summary *dock.Summary, title, filename string) error {
	labels := summary.Labels()
	if len(labels) == 0 {
		return fmt.Errorf("chemplot: SiteCounts: no sites to plot")
	}
	vals := make(plotter.Values, len(labels))
	for i, l := range labels {
		vals[i] = float64(summary.Counts[l])
	}
	p := basicPlot(title, "Site", "Ligands")
	bars, err := plotter.NewBarChart(vals, vg.Points(20))
	if err != nil {
		return fmt.Errorf("chemplot: SiteCounts: %w", err)
	}
	bars.Color = colors(4)
	bars.LineStyle.Color = color.Black
	p.Add(bars)
	p.NominalX(labels...)
	if err := p.Save(5*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("chemplot: SiteCounts: %w", err)
	}
	return nil
}
