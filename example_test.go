package bucketx_test

import (
	"fmt"

	"github.com/gostratum/bucketx"
)

// ExampleDefaultConfig demonstrates creating a default configuration and
// overriding the bucket name. In real apps you would typically load the
// configuration from a file via LoadConfig and supply it to the FX container.
func ExampleDefaultConfig() {
	cfg := bucketx.DefaultConfig()
	cfg.Bucket = "example-bucket"

	fmt.Println(cfg.Bucket)

	// Output:
	// example-bucket
}

// ExampleNormalizePath shows the path contract shared by all operations:
// every path gets a single leading separator, so callers may pass either
// form interchangeably.
func ExampleNormalizePath() {
	fmt.Println(bucketx.NormalizePath("reports/2024/summary.txt"))
	fmt.Println(bucketx.NormalizePath("//reports//2024/summary.txt"))

	// Output:
	// /reports/2024/summary.txt
	// /reports//2024/summary.txt
}
