// Package logship provides an embeddable forwarder for CLEF log files.
//
// logship reads log files produced by an ArmoniK deployment, keeps the lines
// that are CLEF events (JSON objects carrying an "@t" timestamp) and posts
// them, in order, to a Seq raw ingestion endpoint in size-bounded batches.
//
// # Basic Usage
//
//	cfg := logship.Config{
//	    URL: "http://localhost:9341/api/events/raw?clef",
//	}
//
//	shipper, err := logship.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := shipper.ForwardFile(ctx, "core.json.gz")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("sent", report.Accepted)
//
// # Inputs
//
// [Shipper.ForwardFile] accepts plain text, gzip-compressed text, ZIP archives
// and gzip-compressed tarballs. [Shipper.ForwardReader] accepts any stream and
// [Shipper.ForwardObject] downloads the input from object storage first.
//
// # Delivery
//
// Every session ends with a flush of the events still buffered, whether the
// input was read completely or not. A batch that fails to post is not retried;
// its events are counted as lost in the returned [Report] and the error wraps
// [ErrDeliveryFailed].
//
// # Dependency Injection
//
// For testing, you can inject custom implementations of external dependencies:
//
//	shipper, err := logship.New(cfg,
//	    logship.WithHTTPClient(mockClient),
//	    logship.WithLogger(customLogger),
//	)
package logship
