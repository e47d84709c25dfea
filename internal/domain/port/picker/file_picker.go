package picker

import "context"

// FilePicker lets the operator choose a file. ok is false when the choice was cancelled.
type FilePicker interface {
	PickFile(ctx context.Context) (path string, ok bool, err error)
}
