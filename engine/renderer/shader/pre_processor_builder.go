package shader

// PreProcessorBuilderOption is a function that configures a preProcessor instance during construction.
type PreProcessorBuilderOption func(*preProcessor)

// WithInclude is an option builder that registers an include chunk.
//
// Parameters:
//   - name: the name used in #include<name>
//   - source: the chunk source
//
// Returns:
//   - PreProcessorBuilderOption: a function that registers the include on a pre-processor
func WithInclude(name, source string) PreProcessorBuilderOption {
	return func(p *preProcessor) {
		p.includes[name] = source
	}
}

// WithMaxIncludeDepth is an option builder that bounds nested include expansion.
//
// Parameters:
//   - depth: the maximum nesting depth, values below 1 are ignored
//
// Returns:
//   - PreProcessorBuilderOption: a function that applies the depth to a pre-processor
func WithMaxIncludeDepth(depth int) PreProcessorBuilderOption {
	return func(p *preProcessor) {
		if depth > 0 {
			p.maxIncludeDepth = depth
		}
	}
}
