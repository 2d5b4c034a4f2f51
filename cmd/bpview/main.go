// bpview is a simple CLI tool for browsing a generated B+ tree.
//
// Usage:
//
//	bpview                       # interactive mode over 1000 random keys, order 4
//	bpview -order 3 -dist sparse # pick the shape
//	bpview -l -c 20              # list mode, first 20 items
//	bpview -t                    # print the keys of every level
//
// Interactive mode:
//
//	j/↓    scroll down
//	k/↑    scroll up
//	g      jump to first
//	G      jump to last
//	/      seek key (first key not below it)
//	q/Esc  quit
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dacapoday/bpindex"
	"github.com/dacapoday/bpindex/bptree"
	"github.com/dacapoday/bpindex/internal/keygen"
	"golang.org/x/term"
)

func main() {
	listFlag := flag.Bool("l", false, "list mode (non-interactive)")
	countFlag := flag.Int("c", 0, "number of items in list mode (0 = all)")
	treeFlag := flag.Bool("t", false, "print the keys of every level and exit")
	order := flag.Int("order", 4, "tree order")
	dist := flag.String("dist", "dense", "bulk-load distribution (dense or sparse)")
	records := flag.Int("n", 1000, "number of random keys")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	tree, err := generate(*order, *dist, *records, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *treeFlag:
		printLevels(os.Stdout, tree)
	case *listFlag:
		runList(os.Stdout, tree, *countFlag)
	default:
		runInteractive(tree)
	}
}

func generate(order int, dist string, records int, seed uint64) (*bptree.Tree[int, string], error) {
	d, err := bpindex.ParseDistribution(dist)
	if err != nil {
		return nil, err
	}
	keys, err := keygen.New(seed).Sample(0, 10*records, records)
	if err != nil {
		return nil, err
	}
	return bptree.Construct(keys, &bptree.Options{Order: order, Distribution: d})
}

func printLevels(w io.Writer, tree *bptree.Tree[int, string]) {
	stats := tree.Stats()
	fmt.Fprintf(w, "order %d, %s, height %d, %d keys in %d leaves (fill %.2f)\n",
		tree.Order(), tree.Distribution(), stats.Height, stats.Keys, stats.LeafNodes, stats.LeafFill)
	for high := tree.Height(); high >= 0; high-- {
		var b strings.Builder
		for i, keys := range tree.KeyLayer(high) {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprint(&b, keys)
		}
		fmt.Fprintf(w, "%d: %s\n", high, b.String())
	}
}

func runList(w io.Writer, tree *bptree.Tree[int, string], count int) {
	iter := tree.Iterator()
	n := 0
	for iter.SeekFirst(); iter.Valid(); iter.Next() {
		if count > 0 && n >= count {
			break
		}
		fmt.Fprintf(w, "%d: %s\n", iter.Key(), iter.Val())
		n++
	}
}

func runInteractive(tree *bptree.Tree[int, string]) {
	iter := tree.Iterator()
	iter.SeekFirst()

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	v := &viewer{
		tree: tree,
		iter: iter,
	}
	v.updateSize()
	v.load()

	fmt.Print("\033[?25l\033[2J") // hide cursor, clear screen once
	defer fmt.Print("\033[?25h\033[2J\033[H") // show cursor, clear screen

	reader := bufio.NewReader(os.Stdin)

	for {
		if v.updateSize() {
			v.load()
		}
		v.render()

		b, err := reader.ReadByte()
		if err != nil {
			break
		}

		v.status = ""

		switch b {
		case 'q', 3, 27: // q, Ctrl+C, Esc
			if b == 27 && reader.Buffered() > 0 {
				b2, _ := reader.ReadByte()
				if b2 == '[' {
					b3, _ := reader.ReadByte()
					switch b3 {
					case 'A':
						v.up()
					case 'B':
						v.down()
					case '5':
						reader.ReadByte()
						v.pageUp()
					case '6':
						reader.ReadByte()
						v.pageDown()
					}
				}
				continue
			}
			return
		case 'j':
			v.down()
		case 'k':
			v.up()
		case 'g':
			v.first()
		case 'G':
			v.last()
		case '/':
			v.seek(reader)
		}
	}
}

type item struct {
	key int
	val string
}

// viewer keeps the iterator parked on the first visible item.
type viewer struct {
	tree    *bptree.Tree[int, string]
	iter    *bptree.Iterator[int, string]
	items   []item
	width   int
	height  int
	atStart bool
	atEnd   bool
	status  string
}

func (v *viewer) updateSize() bool {
	w, h, err := term.GetSize(int(os.Stdin.Fd()))
	if err != nil {
		w, h = 80, 24
	}
	if w == v.width && h == v.height {
		return false
	}
	v.width, v.height = w, h
	return true
}

func (v *viewer) lines() int {
	return max(v.height-4, 1) // title, two separators, status
}

func (v *viewer) load() {
	v.items = v.items[:0]
	v.atStart, v.atEnd = false, false

	if !v.iter.Valid() && !v.iter.SeekFirst() {
		v.atStart, v.atEnd = true, true
		return
	}

	for range v.lines() {
		v.items = append(v.items, item{v.iter.Key(), v.iter.Val()})
		if !v.iter.Next() {
			v.atEnd = true
			break
		}
	}

	v.iter.Seek(v.items[0].key)
	if !v.iter.Prev() {
		v.atStart = true
	}
	v.iter.Seek(v.items[0].key)
}

func (v *viewer) down() {
	if len(v.items) == 0 {
		return
	}
	v.iter.Seek(v.items[len(v.items)-1].key)
	if v.iter.Next() {
		v.items = append(v.items[1:], item{v.iter.Key(), v.iter.Val()})
		v.atStart = false
		if !v.iter.Next() {
			v.atEnd = true
		}
	} else if len(v.items) > 1 {
		v.items = v.items[1:]
		v.atEnd = true
	}
	v.iter.Seek(v.items[0].key)
}

func (v *viewer) up() {
	if v.atStart || len(v.items) == 0 {
		return
	}
	v.iter.Seek(v.items[0].key)
	if v.iter.Prev() {
		head := item{v.iter.Key(), v.iter.Val()}
		if len(v.items) >= v.lines() {
			v.items = append([]item{head}, v.items[:len(v.items)-1]...)
		} else {
			v.items = append([]item{head}, v.items...)
		}
		v.atEnd = false
		if !v.iter.Prev() {
			v.atStart = true
		}
	}
	v.iter.Seek(v.items[0].key)
}

func (v *viewer) pageDown() {
	for range v.lines() - 1 {
		v.down()
	}
}

func (v *viewer) pageUp() {
	for range v.lines() - 1 {
		v.up()
	}
}

func (v *viewer) first() {
	v.iter.SeekFirst()
	v.load()
}

func (v *viewer) last() {
	v.iter.SeekLast()
	for range v.lines() - 1 {
		if !v.iter.Prev() {
			break
		}
	}
	if !v.iter.Valid() {
		v.iter.SeekFirst()
	}
	v.load()
}

func (v *viewer) seek(reader *bufio.Reader) {
	fmt.Print("\033[?25h") // show cursor
	fmt.Printf("\033[%d;1H\033[K/", v.height)

	var input []byte
	for {
		b, err := reader.ReadByte()
		if err != nil {
			break
		}
		if b == 27 || b == 3 { // Esc or Ctrl+C
			fmt.Print("\033[?25l")
			return
		}
		if b == 13 || b == 10 {
			break
		}
		if b == 127 || b == 8 {
			if len(input) > 0 {
				input = input[:len(input)-1]
				fmt.Print("\b \b")
			}
			continue
		}
		if b == '-' || '0' <= b && b <= '9' {
			input = append(input, b)
			fmt.Print(string(b))
		}
	}
	fmt.Print("\033[?25l")

	if len(input) == 0 {
		return
	}
	key, err := strconv.Atoi(string(input))
	if err != nil {
		v.status = fmt.Sprintf("not a key: %s", input)
		return
	}
	if !v.iter.Seek(key) {
		v.status = "not found"
		if len(v.items) > 0 {
			v.iter.Seek(v.items[0].key)
		}
		return
	}
	v.load()
	if v.items[0].key == key {
		v.status = fmt.Sprintf("found %d", key)
	} else {
		v.status = fmt.Sprintf("jumped to %d", v.items[0].key)
	}
}

func (v *viewer) render() {
	var b strings.Builder

	b.WriteString("\033[H")

	fmt.Fprintf(&b, "[ bpview ] order %d, %s, height %d, %d keys\033[K\r\n",
		v.tree.Order(), v.tree.Distribution(), v.tree.Height(), v.tree.Len())
	b.WriteString(strings.Repeat("─", v.width))
	b.WriteString("\033[K\r\n")

	for i := range v.lines() {
		if i < len(v.items) {
			fmt.Fprintf(&b, "%12d: %s", v.items[i].key, v.items[i].val)
		} else {
			b.WriteString("~")
		}
		b.WriteString("\033[K\r\n")
	}

	b.WriteString(strings.Repeat("─", v.width))
	b.WriteString("\033[K\r\n")

	pos := ""
	if v.atStart && v.atEnd {
		pos = "[all]"
	} else if v.atStart {
		pos = "[top]"
	} else if v.atEnd {
		pos = "[end]"
	}

	if v.status != "" {
		b.WriteString(" ")
		b.WriteString(v.status)
		b.WriteString(" ")
		b.WriteString(pos)
	} else {
		b.WriteString(" j/k:scroll g/G:jump /:seek q:quit ")
		b.WriteString(pos)
	}
	b.WriteString("\033[K")

	fmt.Print(b.String())
}
