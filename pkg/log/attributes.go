// Standard attribute keys. Keys follow a hierarchical naming convention ("model.name",
// "data.samples") so log streams can be filtered by prefix.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator type, e.g. "PLS" or "StandardScaler".
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape
const (
	// SamplesKey is the number of rows N.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of predictor columns K.
	FeaturesKey = "data.features"

	// TargetsKey is the number of response columns M.
	TargetsKey = "data.targets"
)

// PLS model context
const (
	// AlgorithmKey is the IKPLS variant, 1 or 2.
	AlgorithmKey = "pls.algorithm"

	// ComponentsKey is the number of latent components A.
	ComponentsKey = "pls.components"

	// ComponentIndexKey is the zero-based index of a single component.
	ComponentIndexKey = "pls.component_index"

	// EigenSolverKey names the dominant eigenvector strategy.
	EigenSolverKey = "pls.eigen_solver"

	// DegenerateFromKey is the first component whose weight vanished.
	DegenerateFromKey = "pls.degenerate_from"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// R2ScoreKey records the coefficient of determination for regression.
	R2ScoreKey = "metrics.r2_score"

	// RMSEKey records root mean squared error.
	RMSEKey = "metrics.rmse"

	// IterationKey records the current iteration of an iterative process.
	IterationKey = "training.iteration"

	// PredsKey indicates the number of predicted rows.
	PredsKey = "preds.count"
)

// Error and Warning Context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"

	// WarningKey carries a structured warning raised through errors.Warn.
	WarningKey = "warning"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationTransform = "transform"
	OperationScore     = "score"

	PhaseTraining      = "training"
	PhaseInference     = "inference"
	PhaseValidation    = "validation"
	PhasePreprocessing = "preprocessing"
)
