// Package join combines several publishers into one stream.
//
// CombineLatest emits the most recent value of every upstream whenever any of them produces,
// once all have produced at least once. Zip pairs values strictly index for index and drops
// nothing until one side runs out. Merge interleaves values of one type as they arrive.
//
//	names := stream.FromSlice("a", "b")
//	scores := stream.FromSlice(1, 2, 3)
//
//	c := stream.SinkFunc(join.Zip2(names, scores),
//		func(t join.Tuple2[string, int]) { fmt.Println(t.First, t.Second) },
//		nil,
//	)
//	defer c.Cancel()
//
// All joins forward the downstream demand to every upstream unchanged and count it down
// only when a value is emitted. A failure of any upstream fails the join immediately and
// cancels the others.
package join
