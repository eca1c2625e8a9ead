package configs

import (
	"os"

	"gopkg.in/yaml.v3"
)

// load imputecalls config from a file.
//
// args:
//   - filepath: filepath refers a config file.
//
// returns *ImputeConfig, error:
//
//	When loading success, returns `(*ImputeConfig, nil)`.
//	Otherwise, returns `(nil, error)`.
func LoadImputeConfig(filepath string) (conf *ImputeConfig, err error) {
	content, ferr := os.ReadFile(filepath)
	if ferr != nil {
		return nil, ferr
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (out *ImputeConfig, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				out = nil
				err = e
				return
			}
			panic(r)
		}
	}()

	var _out *ImputeConfigMarshall
	if err := yaml.Unmarshal(conf, &_out); err != nil {
		return nil, err
	}
	return TrySeal[*ImputeConfig](_out), nil
}
