package main

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/icelinehq/hockey-sim-engine/internal/model"
)

// matchedNames collects every roster name the query fuzzily matches, so
// "aalto" or "j aalto" both land on "J. Aalto" without exact spelling.
func matchedNames(m model.Matchup, query string) []string {
	if query == "" {
		return nil
	}
	var names []string
	for _, team := range []model.Roster{m.Home.Roster, m.Away.Roster} {
		for _, p := range team.Players {
			if fuzzy.MatchNormalizedFold(query, p.Name) {
				names = append(names, p.Name)
			}
		}
	}
	return names
}

// keepLine reports whether a narrative line mentions any of the filtered
// names. An empty filter keeps everything.
func keepLine(line string, names []string) bool {
	if len(names) == 0 {
		return true
	}
	for _, n := range names {
		if strings.Contains(line, n) {
			return true
		}
	}
	return false
}

func nameIn(name string, names []string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// printPlayerLines writes a one-line stat summary for each filtered player.
func printPlayerLines(res *model.GameResult, names []string) {
	if len(names) == 0 {
		return
	}
	for _, tb := range []model.TeamBox{res.Boxscore.Home, res.Boxscore.Away} {
		for _, row := range tb.Skaters {
			if !nameIn(row.Name, names) {
				continue
			}
			fmt.Printf("🎯 %s (%s): %dG %dA, %d SOG, %d hits, %d PIM, %s TOI\n",
				row.Name, tb.Team.Name, row.Goals, row.Assists, row.Shots, row.Hits, row.PIM, mmss(row.TOI.Total()))
		}
		for _, row := range tb.Goalies {
			if !nameIn(row.Name, names) {
				continue
			}
			fmt.Printf("🎯 %s (%s): %d saves on %d shots, %s TOI\n",
				row.Name, tb.Team.Name, row.Saves, row.ShotsAgainst, mmss(row.TOISeconds))
		}
	}
}

func mmss(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
