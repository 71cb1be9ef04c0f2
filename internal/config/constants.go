package config

const (
	// DefaultConfigFile is the configuration file looked up in the working directory.
	DefaultConfigFile = ".testusage.yaml"
	// EnvConfigFile overrides the configuration file path.
	EnvConfigFile = "TESTUSAGE_CONFIG"
	// EnvShowOnlyIfEdgeIsExceeded overrides showOnlyIfEdgeIsExceeded.
	EnvShowOnlyIfEdgeIsExceeded = "TESTUSAGE_SHOW_ONLY_IF_EDGE_IS_EXCEEDED"
	// EnvExecutionTimeEdge overrides executionTimeEdge.
	EnvExecutionTimeEdge = "TESTUSAGE_EXECUTION_TIME_EDGE"
	// EnvMemoryUsageEdge overrides memoryUsageEdge.
	EnvMemoryUsageEdge = "TESTUSAGE_MEMORY_USAGE_EDGE"
	// EnvMemoryPeakDifferenceEdge overrides memoryPeakDifferenceEdge.
	EnvMemoryPeakDifferenceEdge = "TESTUSAGE_MEMORY_PEAK_DIFFERENCE_EDGE"
	// EnvFormat selects the report format.
	EnvFormat = "TESTUSAGE_FORMAT"
	// FormatText prints numbered plain-text lines.
	FormatText = "text"
	// FormatTable prints a table followed by a run summary.
	FormatTable = "table"
)
