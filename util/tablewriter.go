/*
tablewriter.go

MIT License

Copyright (c) Foxglove Technologies Inc

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

package util

import (
	"fmt"
	"io"
	"strings"
)

// PrintTable writes rows under headers. Tables wider than width are written
// as one block per row instead of one line per row.
func PrintTable(w io.Writer, width int, headers []string, rows [][]string) {
	tableWidth, cellWidths := cellWidths(headers, rows)
	if width > 0 && tableWidth > width {
		printBlocks(w, width, headers, rows)
		return
	}
	printLines(w, cellWidths, headers, rows)
}

func cellWidths(headers []string, rows [][]string) (int, []int) {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = len(header) + 4
	}
	for _, row := range rows {
		for i, column := range row {
			if widths[i] < len(column)+2 {
				widths[i] = len(column) + 2
			}
		}
	}
	// even padding lets headers center
	for i, header := range headers {
		if (widths[i]-len(header))%2 == 1 {
			widths[i]++
		}
	}
	total := len(headers) + 1
	for _, width := range widths {
		total += width
	}
	return total, widths
}

/*
printLines writes a table formatted like this:
|    CLASS    |   PROFILE   |          OBJECT           |
|-------------|-------------|---------------------------|
| USER        | BOB1        | 6b1e0d0c-...              |
*/
func printLines(w io.Writer, widths []int, headers []string, rows [][]string) {
	fmt.Fprint(w, "|")
	for i, header := range headers {
		padding := strings.Repeat(" ", (widths[i]-len(header))/2)
		fmt.Fprintf(w, "%s%s%s|", padding, header, padding)
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, "|")
	for _, width := range widths {
		fmt.Fprintf(w, "%s|", strings.Repeat("-", width))
	}
	fmt.Fprintln(w)
	for _, row := range rows {
		fmt.Fprint(w, "|")
		for i, col := range row {
			fmt.Fprintf(w, " %s%s|", col, strings.Repeat(" ", widths[i]-len(col)-1))
		}
		fmt.Fprintln(w)
	}
}

/*
printBlocks writes one block per row, formatted like this:

	-[ RECORD 1 ]-+------------------
	CLASS         | USER
	PROFILE       | BOB1
*/
func printBlocks(w io.Writer, width int, headers []string, rows [][]string) {
	headerWidth := len(fmt.Sprintf("-[ RECORD %d ]", len(rows)+1))
	recordWidth := 0
	for _, header := range headers {
		headerWidth = max(headerWidth, len(header))
	}
	for _, row := range rows {
		for _, col := range row {
			recordWidth = max(recordWidth, len(col))
		}
	}
	extent := min(recordWidth+15, width-headerWidth-1)
	dashes := strings.Repeat("-", max(extent, 1))
	for i, row := range rows {
		label := fmt.Sprintf("-[ RECORD %d ]", i+1)
		fmt.Fprintf(w, "%s%s+%s\n", label, strings.Repeat("-", headerWidth-len(label)), dashes)
		for j, col := range row {
			fmt.Fprintf(w, "%-*s| %s\n", headerWidth, headers[j], col)
		}
	}
}
