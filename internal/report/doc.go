// Package report renders sensor coverage for people: PNG maps of the sensor
// diamonds (gonum/plot) and per-row coverage charts (go-echarts).
package report
