package report

import "lookback/internal/storage"

// selectKeyScreenshots picks at most maxCount screenshots to illustrate a
// report. Phase one walks the summaries in order and takes one referenced
// screenshot each, preferring applications not yet represented once half the
// budget is spent. Phase two backfills with evenly spaced screenshots from
// the whole range, so sparse summaries still leave the period visually
// covered. No screenshot is selected twice.
func selectKeyScreenshots(screenshots []storage.Screenshot, summaries []storage.Summary, maxCount int) []storage.Screenshot {
	if len(screenshots) == 0 || maxCount <= 0 {
		return []storage.Screenshot{}
	}

	selected := []storage.Screenshot{}
	selectedIDs := map[string]bool{}
	seenApps := map[string]bool{}

	for _, summary := range summaries {
		if len(selected) >= maxCount {
			break
		}
		referenced := map[string]bool{}
		for _, id := range summary.ScreenshotIDs {
			referenced[id] = true
		}

		for _, ss := range screenshots {
			if !referenced[ss.ID] || selectedIDs[ss.ID] {
				continue
			}
			app := orUnknown(ss.AppName)
			if !seenApps[app] || len(selected) < maxCount/2 {
				selected = append(selected, ss)
				selectedIDs[ss.ID] = true
				seenApps[app] = true
				break
			}
		}
	}

	if len(selected) < maxCount {
		remaining := maxCount - len(selected)
		stride := len(screenshots) / remaining
		if stride < 1 {
			stride = 1
		}
		for i := 0; i < len(screenshots); i += stride {
			if !selectedIDs[screenshots[i].ID] {
				selected = append(selected, screenshots[i])
				selectedIDs[screenshots[i].ID] = true
			}
			if len(selected) >= maxCount {
				break
			}
		}
	}

	if len(selected) > maxCount {
		selected = selected[:maxCount]
	}
	return selected
}
