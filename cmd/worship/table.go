package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/hazadus/worship/internal/track"
	"github.com/hazadus/worship/internal/utils"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderEntries выводит треки с порядковым номером, отметкой и оценкой
func renderEntries(entries []track.Entry) string {
	headers := []string{"#", "♥", "ID", "Исполнитель", "Название", "Альбом", "Длительность", "Оценка"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight}

	rows := make([][]string, 0, len(entries))
	for i, entry := range entries {
		heart := ""
		if entry.Liked {
			heart = "♥"
		}

		duration := "N/A"
		if entry.DurationSeconds > 0 {
			duration = utils.FormatDurationFromSeconds(entry.DurationSeconds)
		}

		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			heart,
			strconv.FormatInt(entry.ID, 10),
			utils.TruncateString(entry.ArtistName, 28),
			utils.TruncateString(entry.Title, 36),
			utils.TruncateString(entry.AlbumTitle, 24),
			duration,
			strconv.Itoa(entry.Score),
		})
	}

	return renderTable(headers, rows, aligns)
}
