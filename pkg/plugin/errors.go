package plugin

import "fmt"

// ContractError reports a plugin that does not provide a required lifecycle
// method.
type ContractError struct {
	Plugin string
	Method string
}

func (e *ContractError) Error() string {
	name := e.Plugin
	if name == "" {
		name = "Plugin"
	}
	return fmt.Sprintf("plugin [%s] must implement %s", name, e.Method)
}
