package lang_test

import (
	"context"
	"fmt"
	"os"

	"github.com/ardnew/nv/lang"
)

func Example() {
	src := `fn greet(name) = "hello, " + name
let names = ["ada", "alan"]
print(greet("nv"), names + ["grace"])`

	ast, err := lang.ParseString(context.Background(), src)
	if err != nil {
		fmt.Println(err)

		return
	}

	if err := ast.Run(context.Background(), lang.WithOutput(os.Stdout)); err != nil {
		fmt.Println(err)
	}

	// Output:
	// hello, nv ["ada", "alan", "grace"]
}

func ExampleAST_Optimize() {
	src := `let debug = false
let level = 1
level = 2
if debug { print("verbose") } else { print("level", level * 10) }`

	ast, _ := lang.ParseString(context.Background(), src)

	fmt.Println(lang.FormatNode(ast.Optimize(context.Background()).Stmts[0]))

	// Output:
	// print("level", 20)
}

func ExampleDescribe() {
	src := "let total = 1\nprint(totl)"

	ast, _ := lang.ParseString(context.Background(), src, lang.WithName("sum.nv"))

	err := ast.Run(context.Background(), lang.WithOutput(nil))
	fmt.Println(lang.Describe(err, "sum.nv", src))

	// Output:
	// sum.nv:2:7: undefined variable: totl
}
