package node

import "infuranode/internal/contractabi"

// MethodOptions lists the callable function names of the ABI for the
// method dropdown, optionally restricted by mutability. Malformed ABI
// text yields jsonutil.ErrInvalidJSON.
func MethodOptions(abiText string, mutability contractabi.Mutability) ([]string, error) {
	def, err := contractabi.Parse(abiText)
	if err != nil {
		return nil, err
	}
	return def.Methods(mutability), nil
}

// InputOptions lists the input parameter names of the chosen method for
// the inputs dropdown. Unknown methods yield an empty list.
func InputOptions(abiText, method string) ([]string, error) {
	def, err := contractabi.Parse(abiText)
	if err != nil {
		return nil, err
	}
	return def.MethodInputs(method), nil
}
