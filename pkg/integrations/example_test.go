package integrations_test

import (
	"fmt"

	"github.com/matzehuels/castgraph/pkg/integrations"
)

func ExampleJoinURL() {
	fmt.Println(integrations.JoinURL("http://localhost:5059/", "/analyze"))
	fmt.Println(integrations.JoinURL("https://www.gutenberg.org/files", "1342/"))
	// Output:
	// http://localhost:5059/analyze
	// https://www.gutenberg.org/files/1342/
}

func ExampleURLEncode() {
	// URL-encode special characters for API queries
	fmt.Println(integrations.URLEncode("Pride and Prejudice"))
	fmt.Println(integrations.URLEncode("a/b"))
	// Output:
	// Pride+and+Prejudice
	// a%2Fb
}

func Example_errors() {
	// Standard errors for upstream operations
	fmt.Println("ErrNotFound:", integrations.ErrNotFound)
	fmt.Println("ErrNetwork:", integrations.ErrNetwork)
	// Output:
	// ErrNotFound: not found
	// ErrNetwork: network error
}
