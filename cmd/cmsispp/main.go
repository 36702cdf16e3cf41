package main

import "github.com/goplus/cmsispp/cmd/cmsispp/internal"

func main() {
	internal.Execute()
}
