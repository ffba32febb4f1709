package config

import (
	"bytes"
	"io"
	"os"
	"path"
	"text/template"

	"binobj/bwire"
	"binobj/log"

	"github.com/pkg/errors"
)

const ConfigFile = "config.toml"

var DefaultConfig = Config{
	LogLevel:  log.LevelInfo.String(),
	LogFormat: log.FormatAuto,
	Codec: CodecConfig{
		MaxEntryLen:   bwire.DefaultMaxEntryLen,
		AllowTrailing: false,
		Tagged:        false,
	},
	HTTP: HTTPConfig{
		Host:           "127.0.0.1",
		Port:           3000,
		MaxBodyBytes:   1024 * 1024,
		ReadTimeoutMS:  10000,
		WriteTimeoutMS: 10000,
		CORSOrigins:    []string{"*"},
	},
	RPC: RPCConfig{
		Host: "127.0.0.1",
		Port: 3001,
	},
	Store: StoreConfig{
		Enabled: true,
	},
	Bench: BenchConfig{
		Transport:   "buf",
		Sequence:    []int{1, 10, 100, 1000, 10000},
		Iterations:  4,
		StringLen:   10,
		Concurrency: 1,
		RateLimit:   0,
	},
}

const defaultConfigTemplateText = `# binobj Config File

# Sets the log level. Can be one of the following values:
# - error
# - warn
# - info
# - debug
# - trace
log_level = "{{.LogLevel}}"

# Sets the log format. One of "text", "json" or "auto". Auto writes
# colored text to terminals and JSON everywhere else.
log_format = "{{.LogFormat}}"

# Configures the binary record codec. Both ends of a connection must
# agree on these settings.
[codec]
  # Sets the largest entry payload, in bytes, the codec will decode.
  # Set to 0 to disable the check.
  max_entry_len = {{.Codec.MaxEntryLen}}
  # Accept buffers with bytes left over after the last declared entry.
  allow_trailing = {{.Codec.AllowTrailing}}
  # Prefix every entry with a one-byte kind tag. Tagged buffers are not
  # compatible with untagged peers.
  tagged = {{.Codec.Tagged}}

# Configures the HTTP server.
[http]
  # Sets the IP the HTTP server listens on.
  host = "{{.HTTP.Host}}"
  # Sets the port the HTTP server listens on.
  port = {{.HTTP.Port}}
  # Sets the largest request body the server will read.
  max_body_bytes = {{.HTTP.MaxBodyBytes}}
  read_timeout_ms = {{.HTTP.ReadTimeoutMS}}
  write_timeout_ms = {{.HTTP.WriteTimeoutMS}}
  # Sets the origins allowed to make cross-origin requests.
  cors_origins = [{{range $i, $o := .HTTP.CORSOrigins}}{{if $i}}, {{end}}"{{$o}}"{{end}}]

# Configures the gRPC server.
[rpc]
  host = "{{.RPC.Host}}"
  port = {{.RPC.Port}}

# Configures the record store.
[store]
  # Persist users received by the server in the home directory's database.
  enabled = {{.Store.Enabled}}

# Configures the benchmark harness.
[bench]
  # Sets the transport to benchmark: json, buf, cbor, grpc or inproc.
  transport = "{{.Bench.Transport}}"
  # Sets the number of round trips in each timed batch.
  sequence = [{{range $i, $n := .Bench.Sequence}}{{if $i}}, {{end}}{{$n}}{{end}}]
  # Sets how many times each batch is repeated.
  iterations = {{.Bench.Iterations}}
  # Sets the length of generated names.
  string_len = {{.Bench.StringLen}}
  # Sets how many round trips run concurrently.
  concurrency = {{.Bench.Concurrency}}
  # Caps round trips per second. Set to 0 for no limit.
  rate_limit = {{.Bench.RateLimit}}
`

var defaultConfigTemplate *template.Template

func GenerateDefaultConfigFile() []byte {
	buf := new(bytes.Buffer)
	if err := defaultConfigTemplate.Execute(buf, DefaultConfig); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func ReadConfigFile(homeDir string) (*Config, error) {
	f, err := os.Open(path.Join(homeDir, ConfigFile))
	if err != nil {
		return nil, errors.Wrap(err, "error opening config file for reading")
	}
	defer f.Close()
	cfg, err := ReadConfig(f)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}
	return cfg, nil
}

func WriteDefaultConfigFile(homeDir string) error {
	f, err := os.OpenFile(path.Join(homeDir, ConfigFile), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrap(err, "error opening config file for writing")
	}
	defer f.Close()
	rd := bytes.NewReader(GenerateDefaultConfigFile())
	if _, err := io.Copy(f, rd); err != nil {
		return errors.Wrap(err, "error writing config file")
	}
	return nil
}

func init() {
	tmpl := template.New("defaultConfig")
	t, err := tmpl.Parse(defaultConfigTemplateText)
	if err != nil {
		panic(err)
	}
	defaultConfigTemplate = t
}
