package main

import (
	"fmt"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/eiannone/keyboard"
	"github.com/sergi/go-diff/diffmatchpatch"
	"neurostring/consensus/conductor"
	"neurostring/consensus/fingerprint"
	"neurostring/neurostring"
)

// cliListener listens for keypresses and executes commands against the conductor.
func cliListener(c *conductor.Conductor) {
	fmt.Println("Press:\nq: to quit\nt: to send a transaction\ns: to print the network state\nc: to ask for consensus\n" +
		"e: to re-entangle\na: to add a node\nd: to dump every node\ni: for info")
	count := 0
	for {
		r, k, err := keyboard.GetSingleKey()
		if err != nil {
			neurostring.LogCLI(err.Error(), 1)
			return
		}
		str := string(r)
		if c == nil && str != "q" && str != "i" && r != 0 {
			fmt.Println("the core is not wired, only q and i are available")
			continue
		}
		switch str {
		default:
			if k == 13 {
				fmt.Println("\n-----------------------------------")
				break
			}
			if r == 0 {
				break
			}
			fmt.Println("Key " + str + " is not bound to any command. See main.cliListener for more details.")
		case "q":
			neurostring.Shutdown()
			go func() {
				neurostring.LogCLI("User requested to terminate", 4)
				time.Sleep(time.Second * 10)
				println("Something didn't shutdown cleanly.")
				os.Exit(0)
			}()
			return
		case "t":
			count++
			before := c.State()
			res := c.HandleTransaction(fingerprint.Text(fmt.Sprintf("console transaction %d at %s", count, time.Now().Format(time.RFC3339))))
			fmt.Println(res.Message)
			fmt.Println(stateDiff(before, c.State()))
		case "s":
			fmt.Printf("%#v\n", c.State())
		case "c":
			reached, ok := c.Consensus(fingerprint.Text("console"))
			if !ok {
				fmt.Println("no nodes to vote")
				break
			}
			fmt.Printf("consensus reached: %v\n", reached)
		case "e":
			fmt.Printf("entanglement: %.3f\n", c.ActivateEntanglement())
		case "a":
			fmt.Println("added " + c.AddNode())
		case "d":
			spew.Dump(c.Nodes())
		case "i":
			fmt.Println(neurostring.About())
		}
	}
}

// stateDiff renders the difference between two states as colored text.
func stateDiff(before, after conductor.State) string {
	// uptime always changes
	before.Uptime, after.Uptime = 0, 0
	config := spew.ConfigState{Indent: " ", DisablePointerAddresses: true, SortKeys: true}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(config.Sdump(before), config.Sdump(after), false)
	return dmp.DiffPrettyText(dmp.DiffCleanupSemantic(diffs))
}
