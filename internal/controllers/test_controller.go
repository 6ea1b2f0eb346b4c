// Package controllers holds the handlers served out of the box. Run
// "frontctl gen" after adding or renaming a tagged method.
package controllers

//frontctl:controller test
type TestController struct{}

//frontctl:get hello
func (c *TestController) Hello() string {
	return "<h1>Hello from TestController!</h1>"
}

//frontctl:get list
func (c *TestController) List() string {
	return "<h1>List from TestController!</h1>"
}
