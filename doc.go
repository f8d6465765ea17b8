// Package stanrun compiles Stan models with CmdStan and runs several
// sampling chains of a model in parallel.
//
// A typical session:
//
//	m, err := stanrun.NewModel(ctx, "models/bernoulli.stan")
//	...
//	results, err := stanrun.Sample(ctx, m, stanrun.SampleRequest{
//		Data:          data,
//		Chains:        4,
//		SampleOptions: stanrun.Record{stanrun.F("num_samples", 1000)},
//	})
//
// Sample returns an error only when it cannot start the chains at all, most
// notably when the model does not compile (*BuildError). A chain that fails
// on its own has an empty SamplePath in its Result; its log file says why.
package stanrun
