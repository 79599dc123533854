// Package export renders run traces as standalone SVG documents.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/expmv/internal/krylov"
)

// StepSizeSVG plots the accepted step size against propagation time.
func StepSizeSVG(steps []krylov.Step, width, height int) string {
	return polylineSVG(column(steps, timeOf, tauOf), width, height, "#00ff00")
}

// NormSVG plots the state-vector norm against propagation time.
func NormSVG(steps []krylov.Step, width, height int) string {
	return polylineSVG(column(steps, timeOf, normOf), width, height, "#00bfff")
}

// ErrSVG plots the local error estimate against propagation time.
func ErrSVG(steps []krylov.Step, width, height int) string {
	return polylineSVG(column(steps, timeOf, errOf), width, height, "#ff8c00")
}

func timeOf(s krylov.Step) float64 { return s.Time }
func tauOf(s krylov.Step) float64  { return s.Tau }
func normOf(s krylov.Step) float64 { return s.Norm }
func errOf(s krylov.Step) float64  { return s.Err }

type point struct{ x, y float64 }

func column(steps []krylov.Step, fx, fy func(krylov.Step) float64) []point {
	pts := make([]point, len(steps))
	for i, s := range steps {
		pts[i] = point{fx(s), fy(s)}
	}
	return pts
}

func polylineSVG(points []point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].x, points[0].x
	minY, maxY := points[0].y, points[0].y
	for _, p := range points {
		if p.x < minX {
			minX = p.x
		}
		if p.x > maxX {
			maxX = p.x
		}
		if p.y < minY {
			minY = p.y
		}
		if p.y > maxY {
			maxY = p.y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.x - minX) / rangeX * float64(width)
		y := float64(height) - (p.y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
