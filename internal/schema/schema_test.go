package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falcon/servingcheck/api/serving"
	"github.com/falcon/servingcheck/internal/platform"
)

func validConfig(platformName string) *serving.ModelConfig {
	return &serving.ModelConfig{
		Name:          "modelA",
		Platform:      platformName,
		VersionPolicy: &serving.VersionPolicy{Latest: &serving.LatestVersions{NumVersions: 1}},
		MaxBatchSize:  4,
		Input:         []serving.IOSpec{{Name: "in0", DataType: serving.TypeFP32, Dims: []int64{3, 224, 224}}},
		Output:        []serving.IOSpec{{Name: "out0", DataType: serving.TypeFP32, Dims: []int64{1000}}},
		InstanceGroup: []serving.InstanceGroup{{Name: "modelA_0", Count: 1, Kind: serving.KindCPU}},
	}
}

func TestValidateAcceptsNormalizedConfig(t *testing.T) {
	t.Parallel()

	for _, name := range []string{
		platform.TensorFlowGraphDef,
		platform.TensorFlowSavedModel,
		platform.Caffe2NetDef,
		platform.TensorRTPlan,
	} {
		require.NoError(t, Validate(validConfig(name), ""), "platform %s", name)
	}

	custom := validConfig(platform.Custom)
	custom.MaxBatchSize = 0
	require.NoError(t, Validate(custom, ""))
}

func TestValidateRejectsMissingInputs(t *testing.T) {
	t.Parallel()

	cfg := validConfig(platform.TensorFlowGraphDef)
	cfg.Input = nil
	assert.Error(t, Validate(cfg, ""))
}

func TestValidateRejectsUnknownPlatform(t *testing.T) {
	t.Parallel()

	cfg := validConfig("onnx_runtime")
	assert.Error(t, Validate(cfg, ""))
}

func TestValidatePlanRequiresBatchSize(t *testing.T) {
	t.Parallel()

	cfg := validConfig(platform.TensorRTPlan)
	cfg.MaxBatchSize = 0
	err := Validate(cfg, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tensorrt_plan")
}

func TestValidateCustomRejectsBatching(t *testing.T) {
	t.Parallel()

	cfg := validConfig(platform.Custom)
	cfg.MaxBatchSize = 2
	assert.Error(t, Validate(cfg, ""))
}

func TestValidateRejectsInputLabelFilename(t *testing.T) {
	t.Parallel()

	cfg := validConfig(platform.TensorFlowGraphDef)
	cfg.Input[0].LabelFilename = "labels.txt"
	assert.Error(t, Validate(cfg, ""))
}

func TestValidateRejectsZeroDimension(t *testing.T) {
	t.Parallel()

	cfg := validConfig(platform.TensorFlowGraphDef)
	cfg.Output[0].Dims = []int64{0}
	assert.Error(t, Validate(cfg, ""))
}

func TestValidateRejectsBadDynamicBatching(t *testing.T) {
	t.Parallel()

	cfg := validConfig(platform.TensorFlowGraphDef)
	cfg.DynamicBatching = &serving.DynamicBatching{PreferredBatchSizes: []int{8}}
	assert.Error(t, Validate(cfg, ""), "preferred size above max_batch_size")

	cfg = validConfig(platform.TensorFlowGraphDef)
	cfg.MaxBatchSize = 0
	cfg.DynamicBatching = &serving.DynamicBatching{PreferredBatchSizes: []int{1}}
	assert.Error(t, Validate(cfg, ""), "dynamic batching without batch support")
}

func TestValidateUsesNameHintInDiagnostics(t *testing.T) {
	t.Parallel()

	cfg := validConfig(platform.TensorFlowGraphDef)
	cfg.Input = nil
	err := Validate(cfg, "hinted-name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hinted-name")
}

func TestValidateRejectsBadVersionPolicy(t *testing.T) {
	t.Parallel()

	cfg := validConfig(platform.TensorFlowGraphDef)
	cfg.VersionPolicy = &serving.VersionPolicy{}
	assert.Error(t, Validate(cfg, ""))
}
