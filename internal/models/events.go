package models

// StageEventType identifies one phase of the aggregation pipeline.
type StageEventType string

const (
	StageRepoMetadata StageEventType = "repo_metadata"
	StageLanguages    StageEventType = "languages"
	StageFileTree     StageEventType = "file_tree"
	StageConfigFiles  StageEventType = "config_files"
	StageAssemble     StageEventType = "assemble"

	// StageGenerate is emitted by the readme service once the snapshot is
	// compiled and the model call is about to start.
	StageGenerate StageEventType = "generate"
)

// StageEvent announces that a pipeline stage is starting. Consumers decide
// how to surface it: the CLI drives a spinner, the server logs it.
type StageEvent struct {
	Type    StageEventType
	Message string
	Data    map[string]interface{}
}
