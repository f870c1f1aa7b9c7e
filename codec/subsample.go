package codec

// SubsampledWidth and SubsampledHeight give the on-disk row/column
// count for a channel whose sampling factor keeps only every s-th
// sample on that axis (spec §4.6.8). dataWindowSize is the full axis
// extent of the data window; it must divide evenly by sampling, which
// callers validate at header-parse time (exr.Header.Validate).
func SubsampledWidth(dataWindowWidth, xSampling int) int {
	return dataWindowWidth / xSampling
}

// SubsampledHeight mirrors SubsampledWidth for the vertical axis.
func SubsampledHeight(dataWindowHeight, ySampling int) int {
	return dataWindowHeight / ySampling
}
