package mesher

// Runs one command of the tool against a single input
type IMesher interface {
	RunMesher(opts *Options) error
}
