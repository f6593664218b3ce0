package main

import (
	"fmt"
	"io"
	"time"

	"adalower/internal/buildpipeline"
)

func printStageTimings(out io.Writer, timings buildpipeline.Timings, includeLowered bool) {
	if out == nil {
		return
	}
	if timings.Has(buildpipeline.StageParse) {
		fmt.Fprintf(out, "parsed %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageParse)))
	}
	if timings.Has(buildpipeline.StageSema) {
		fmt.Fprintf(out, "checked %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageSema)))
	}
	if includeLowered && (timings.Has(buildpipeline.StageLower) || timings.Has(buildpipeline.StageEmit)) {
		lowered := timings.Sum(buildpipeline.StageLower, buildpipeline.StageEmit)
		fmt.Fprintf(out, "lowered %.1f ms\n", toMillis(lowered))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
