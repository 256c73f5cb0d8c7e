// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(chainParamGuide)
	app.Add(modelFilesGuide)
	app.Add(projectsGuide)
	app.Add(treeFilesGuide)
}

var projectsGuide = &command.Command{
	Usage: "projects",
	Short: "about project files",
	Long: `
Mtt requires several files to read and process multi-type tree data. To
reduce the burden of keeping track of many files, a single project file is
used to hold the reference of all files required in the analysis. This guide
explains the structure of the file, but most of the time, the best and most
secure way to edit or view this file is by using mtt commands.

A project file is a tab-delimited file with the following fields:

	- dataset  for the kind of file
	- path     for the path of the file

Here is an example file:

	# mtt project files
	dataset	path
	types	types.txt
	popsizes	popsizes.txt
	rates	rates.tab
	leaftypes	leaf-types.tab
	timetrees	time-trees.tab
	trees	trees.tab
	chainparam	chain.tab

The valid file types are:

- Type names. Defined by the dataset keyword "types". This file contains the
  names of the types (demes, subpopulations) one per line. The recommended
  way to edit the types is by using the commands in 'mtt types'.
- Population sizes. Defined by the dataset keyword "popsizes". This file
  contains the effective population size of each type, one value per line in
  the order of the types. The recommended way to set population sizes is by
  using the command 'mtt model set'.
- Migration rates. Defined by the dataset keyword "rates". This file contains
  the migration rates between pairs of types in the form of a tab-delimited
  file. The recommended way to set the rates is by using the commands
  'mtt model set' and 'mtt model import'.
- Leaf types. Defined by the dataset keyword "leaftypes". This file contains
  the type of each sampled taxon. The recommended way to add leaf types is by
  using the command 'mtt leaf add'.
- Time-calibrated trees. Defined by the dataset keyword "timetrees". This file
  contains one or more time calibrated trees, without types, in the form of a
  tab-delimited file. The recommended way to add time trees is by using the
  command 'mtt tree add'.
- Multi-type trees. Defined by the dataset keyword "trees". This file contains
  one or more trees with types and migration events. Trees can be built with
  'mtt tree color' or 'mtt sim'.
- Chain parameters. Defined by the dataset keyword "chainparam". This file
  contains the parameters of the MCMC chain. The recommended way to set the
  chain parameters is by using the command 'mtt mcmc param'.
	`,
}

var treeFilesGuide = &command.Command{
	Usage: "tree-files",
	Short: "about multi-type tree files",
	Long: `
In mtt, multi-type trees are stored in a tab-delimited file. Each row is
either a node or a migration event on the branch above a node.

A multi-type tree file is a tab-delimited file with the following columns:

	-tree    for the name of the tree.
	-kind    either "node" or "migration".
	-node    for the ID of the node.
	-parent  for of ID of the parent node (-1 is used for the root).
	-age     the height of the node, or the time of a migration event (in
	         million years before present).
	-type    the type of the node, or the destination type (going to the
	         past) of the migration event.
	-taxon   the taxonomic name of a leaf.

Here is an example file:

	tree	kind	node	parent	age	type	taxon
	dummy	node	0	-1	2	B
	dummy	node	1	0	1	B
	dummy	migration	1	0	1.5	A
	dummy	node	2	1	0	A	Acer campbellii
	dummy	node	3	1	0	A	Acer erythranthum
	dummy	node	4	0	0	B	Acer platanoides

In this example, the branch above node 1 starts as type A at the node (1 Ma)
and changes to type B at 1.5 Ma.

In a mtt project, the file that contains the multi-type trees is indicated
with the "trees" keyword.
	`,
}

var modelFilesGuide = &command.Command{
	Usage: "model-files",
	Short: "about population size and migration rate files",
	Long: `
The structured coalescent model is defined by the effective population size
of each type, and the migration rate between each pair of types.

The population sizes are stored in a plain text file with a value per line,
in the same order as the types. Empty lines, or lines starting with '#', are
ignored. Here is an example file:

	# population sizes
	7
	7

The migration rates are stored in a tab-delimited file with the following
columns:

	- from  the name of the source type.
	- to    the name of the destination type.
	- rate  the migration rate.

Here is an example file:

	from	to	rate
	Africa	Eurasia	0.2
	Eurasia	Africa	0.1

Pairs not defined in the file have a rate of zero.

By default, rates are interpreted backward in time (i.e., the rate at which a
lineage of type "from" becomes a lineage of type "to" going into the past).
The chain parameter "convention" can be used to interpret the rates forward
in time (see 'mtt help chain-params').

In a mtt project, the population sizes are indicated with the "popsizes"
keyword, and the rates with the "rates" keyword.
	`,
}

var chainParamGuide = &command.Command{
	Usage: "chain-params",
	Short: "about the chain parameters file",
	Long: `
The parameters of an MCMC chain are stored in a tab-delimited file with the
following columns:

	- parameter  the name of the parameter.
	- value      the value of the parameter.

The valid parameters are:

	chain          number of iterations of the chain.
	logevery       iterations between samples.
	burnin         fraction of samples discarded in summaries.
	seed           seed of the random number generator (0 uses the clock).
	alpha          root branch extension in a Wilson-Balding move to the
	               root, relative to the root height.
	scalefactor    scale factor of the tree scale operator, in (0, 1).
	wilsonbalding  weight of the typed Wilson-Balding operator.
	scale          weight of the tree scale operator.
	noderetype     weight of the node retype operator.
	convention     time direction of the migration rates: "backward",
	               "forward" (forward rates are transposed and scaled by the
	               ratio of population sizes), or "forward-transpose"
	               (forward rates are only transposed).

Here is an example file:

	# mtt chain parameters
	parameter	value
	chain	1000000
	logevery	1000
	burnin	0.1
	seed	42
	alpha	0.2
	scalefactor	0.8
	wilsonbalding	1
	scale	1
	noderetype	1
	convention	backward

In a mtt project, the file that contains the chain parameters is indicated
with the "chainparam" keyword.
	`,
}
