package main

import (
	"fmt"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/openmined/droidsync/internal/backup"
	"github.com/openmined/droidsync/internal/pathutil"
)

// listTruncateSize caps printed path lists; tens of thousands of entries
// would drown the useful output.
const listTruncateSize = 20

// truncateList cuts lst after listTruncateSize entries, appending a
// `... (total: N)` tail so the full count stays visible.
func truncateList(lst []pathutil.RelPath) []string {
	out := make([]string, 0, min(len(lst), listTruncateSize+1))
	for _, p := range lst {
		if len(out) == listTruncateSize {
			out = append(out, fmt.Sprintf("... (total: %d)", len(lst)))
			break
		}
		out = append(out, string(p))
	}
	return out
}

func formatPathList(lst []pathutil.RelPath) string {
	if len(lst) == 0 {
		return "None"
	}
	return strings.Join(truncateList(lst), "\n\t")
}

func sortedPaths(s mapset.Set[pathutil.RelPath]) []pathutil.RelPath {
	paths := s.ToSlice()
	slices.Sort(paths)
	return paths
}

func printPlan(plan *backup.Plan) {
	fmt.Printf("%s\n\t%s\n", cyan.Render("Missing files:"), formatPathList(sortedPaths(plan.MissingFiles)))
	fmt.Printf("%s\n\t%s\n", cyan.Render("Missing dirs:"), formatPathList(sortedPaths(plan.MissingDirs)))
}

func printFaulty(faulty []pathutil.RelPath) {
	fmt.Printf("%s\n\t%s\n", cyan.Render("Faulty backed files:"), formatPathList(faulty))
}

func printReport(result *backup.PullResult) {
	fmt.Printf("\n%s\n", green.Render(fmt.Sprintf("Pulled successfully %d files.", len(result.Succeeded))))
	if len(result.Failed) == 0 {
		fmt.Println("Failed to pull 0.")
		return
	}

	// the failed list is never truncated; it is the actionable output
	lines := make([]string, len(result.Failed))
	for i, f := range result.Failed {
		lines[i] = fmt.Sprintf("%s (%s)", f.Path, gray.Render(string(f.Outcome)))
	}
	fmt.Printf("%s\n\t%s\n", red.Render(fmt.Sprintf("Failed to pull %d files:", len(result.Failed))), strings.Join(lines, "\n\t"))
}
