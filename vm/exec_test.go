package vm_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcorner/holyz/lexer"
	"github.com/dcorner/holyz/vm"
)

// run loads and executes src as a full program, returning whatever the
// top-level statement stream wrote to Output.
func run(t *testing.T, src string, opts ...vm.Option) string {
	t.Helper()
	var out bytes.Buffer
	c, err := vm.New(append([]vm.Option{vm.Output(&out)}, opts...)...)
	require.NoError(t, err)
	top, err := c.Load(lexer.Split(src))
	require.NoError(t, err)
	for i := 0; i < len(top); i++ {
		_, err := c.Exec(top, &i, vm.Locals{})
		require.NoError(t, err)
	}
	return out.String()
}

func TestExecIfElse(t *testing.T) {
	src := `
if (1 > 2) {
	print "no"
}
else {
	print "yes"
}
`
	assert.Equal(t, "yes\n", run(t, src))
}

func TestExecIfElseIfChain(t *testing.T) {
	src := `
int x = 2
if (x == 1) {
	print "one"
}
else if (x == 2) {
	print "two"
}
else {
	print "other"
}
`
	assert.Equal(t, "two\n", run(t, src))
}

func TestExecWhileBreakAndContinue(t *testing.T) {
	src := `
int i = 0
int sum = 0
while (i < 10) {
	i += 1
	if (i == 3) {
		continue
	}
	if (i == 6) {
		break
	}
	sum += i
}
print sum
`
	// 1 + 2 + 4 + 5 = 12 (3 skipped by continue, loop stops before 6 is added)
	assert.Equal(t, "12\n", run(t, src))
}

func TestExecFunctionCallAndReturn(t *testing.T) {
	src := `
func add(a, b) {
	return a + b
}
print add(2, 3)
`
	assert.Equal(t, "5\n", run(t, src))
}

func TestExecClassConstructorAndSend(t *testing.T) {
	src := `
class Player {
	int hp = 100

	func constructor(startHP) {
		this.hp = startHP
	}

	func damage(amount) {
		this.hp -= amount
		return this.hp
	}
}

Player p = Player(50)
print p.hp
print Send(p, "damage", 20)
`
	assert.Equal(t, "50\n30\n", run(t, src))
}

func TestExecClassInheritance(t *testing.T) {
	src := `
class Animal {
	func speak() {
		return "..."
	}
}
class Dog : Animal {
	func speak() {
		return "woof"
	}
}
Dog d = Dog()
print Send(d, "speak")
`
	assert.Equal(t, "woof\n", run(t, src))
}

func TestExecHolyCAutoPrint(t *testing.T) {
	src := `
#holyc on
"Hello"
`
	assert.Equal(t, "Hello\n", run(t, src))
}

func TestExecHolyCModeDoesNotAutoPrintNonLiteralExpressions(t *testing.T) {
	src := `
#holyc on
2 + 3
ZS.System.PrintLine ( "done" )
`
	// a bare arithmetic expression is not a single double-quoted literal,
	// so spec.md §4.6 item 2 never auto-prints it, even in Holy-C mode.
	assert.Equal(t, "done\n", run(t, src))
}

func TestExecWhileUnparenthesizedCondition(t *testing.T) {
	src := `
int i = 0
while i < 3 {
	print i
	i += 1
}
`
	assert.Equal(t, "0\n1\n2\n", run(t, src))
}

func TestExecIfUnparenthesizedCondition(t *testing.T) {
	src := `
int x = 1
if x == 1 {
	print "one"
}
else {
	print "other"
}
`
	assert.Equal(t, "one\n", run(t, src))
}

func TestExecTopLevelGlobalVisibleInsideFunction(t *testing.T) {
	src := `
int counter = 41

func bump() {
	return counter + 1
}

print bump()
`
	assert.Equal(t, "42\n", run(t, src))
}

func TestExecResultAndOptionBuiltins(t *testing.T) {
	src := `
Result r = Ok(5)
print IsOk(r)
print Unwrap(r)

Option o = None()
print IsNone(o)
print UnwrapOr(o, 42)
`
	assert.Equal(t, "true\n5\ntrue\n42\n", run(t, src))
}

func TestExecResultErrScenario(t *testing.T) {
	// spec.md §8.2 scenario E7, lowercase-first builtin names.
	src := `
Result r = Err ( "bad" , "IOError" )
ZS.System.PrintLine ( isErr ( r ) )
ZS.System.PrintLine ( unwrapOr ( r , 99 ) )
`
	assert.Equal(t, "true\n99\n", run(t, src))
}

func TestExecPointerBuiltins(t *testing.T) {
	// spec.md §8.2 scenario E6, lowercase-first builtin names.
	src := `
Pointer p = malloc ( 42 )
ZS.System.PrintLine ( deref ( p ) )
setvalue ( p , 7 )
ZS.System.PrintLine ( deref ( p ) )
free ( p )
ZS.System.PrintLine ( deref ( p ) )
`
	assert.Equal(t, "42\n7\nnull\n", run(t, src))
}

func TestExecHasMethodAndGetMethod(t *testing.T) {
	src := `
class Greeter {
	func hello() {
		return "hi"
	}
}
Greeter g = Greeter()
print hasmethod(g, "hello")
print hasmethod(g, "bye")
print getmethod(g, "hello")
`
	assert.Equal(t, "true\nfalse\nhello\n", run(t, src))
}

func TestExecTypecheckAndExpect(t *testing.T) {
	src := `
int n = 5
print typecheck("int", n)
print istype("string", n)

Result r = Ok(9)
print expect(r, "should have a value")
`
	assert.Equal(t, "true\nfalse\n9\n", run(t, src))
}

func TestExecMathTanAndLerp(t *testing.T) {
	src := `
ZS.System.PrintLine ( ZS.Math.Tan ( 0 ) )
ZS.System.PrintLine ( ZS.Math.Lerp ( 0 , 10 , 0.5 ) )
`
	assert.Equal(t, "0\n5\n", run(t, src))
}
