package safety

// Options carries the global safety flags.
type Options struct {
	// DryRun previews planned store operations without performing any.
	DryRun bool
	// Yes answers prompts non-interactively (required under cron).
	Yes bool
}
