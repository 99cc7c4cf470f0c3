// Command heddle builds, inspects and serves woven-textile drafts.
package main

func main() {
	Execute()
}
