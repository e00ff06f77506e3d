package mcpserver

import (
	"fmt"

	"github.com/starford/sipekan/internal/gizi"
)

// StatusCriteria describes how measurements are screened. It is served as
// the sipekan://status-criteria resource.
var StatusCriteria = fmt.Sprintf(`# Sipekan Screening Criteria

A measurement is screened with three indicators. The child is labelled
%[1]q when every indicator is within range, otherwise %[2]q.

## Inputs

- weight (kg), height (cm), age in whole months, sex (%[3]s or %[4]s)
- mid-upper arm circumference (cm), optional

If weight, height, age or sex is missing the label is %[1]q.

## Reference medians

| Sex | Weight (kg) | Height (cm) |
|---|---|---|
| %[3]s | 3.3 + 0.35 x months | 49.9 + 1.5 x months |
| %[4]s | 3.2 + 0.33 x months | 49.1 + 1.45 x months |

## Indicators

1. Weight for age: z = (weight - median) / 1.5, normal when -2 <= z <= 1.
2. Height for age: z = (height - median) / 3.5, normal when z >= -2.
3. Arm circumference: normal when absent, zero, or at least %.1[5]f cm.

## Child codes

Registered children carry a code YYYYMMDD-II-NNN: birth date, two name
initials and a sequence number per birth date. Unknown dates use 00000000,
blank names use XX.
`, gizi.Normal, gizi.AtRiskStunting, gizi.Male, gizi.Female, gizi.MinArmCircumferenceCm)
