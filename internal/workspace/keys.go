package workspace

import apperrors "github.com/julianstephens/ogtodo/internal/errors"

const (
	KeyEnter     = "enter"
	KeyBackspace = "backspace"
	KeyDelete    = "delete"
)

// Key is a key press on a task's title input.
type Key struct {
	Name  string
	Shift bool
	Ctrl  bool
}

// HandleKey applies the task editing key bindings:
//
//	enter              add a task after taskID and focus it
//	shift+enter        add a subtask under taskID
//	backspace          delete taskID when its title (value) is empty
//	delete, ctrl+del   delete taskID
//
// value is the current text of the task's input. It reports whether the key
// was consumed. Deleting the last task is silently ignored.
func (s *Session) HandleKey(taskID string, key Key, value string) (bool, error) {
	switch key.Name {
	case KeyEnter:
		var err error
		if key.Shift {
			_, err = s.AddSubTask(taskID)
		} else {
			_, err = s.AddTask(taskID)
		}
		return true, err
	case KeyBackspace:
		if value != "" {
			return false, nil
		}
		return true, ignoreLastTask(s.DeleteTask(taskID))
	case KeyDelete:
		return true, ignoreLastTask(s.DeleteTask(taskID))
	}
	return false, nil
}

func ignoreLastTask(err error) error {
	if apperrors.Is(err, ErrLastTask) {
		return nil
	}
	return err
}
