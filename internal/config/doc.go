// Package config loads the vlite.json project file used by the vlite CLI.
//
// # Configuration File Structure
//
//	{
//	  "name": "demo",
//	  "templates": ["views/*.html"],
//	  "data": "views/data.yaml",
//	  "debug": true,
//	  "maxPasses": 25,
//	  "devtools": {
//	    "addr": "localhost:7070",
//	    "history": 100
//	  },
//	  "snapshot": {
//	    "dir": ".vlite/snapshots",
//	    "s3": {"bucket": "my-bucket", "prefix": "snapshots/", "region": "eu-west-1"}
//	  },
//	  "metrics": {"namespace": "vlite"}
//	}
//
// Relative paths are resolved against the directory holding vlite.json.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Devtools:", cfg.Devtools.Addr)
package config
