/*
 * doc.go, part of dockprep.
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

/*
Package chem is the main package of the dockprep tools. It provides atom and molecule structures,
and facilities for reading and writing the structure files used when preparing receptors and
ligands for docking.

	**Capabilities**

    Reads/writes fixed-column PDB files, keeping every column of the
	ATOM/HETATM records (alternate locations, insertion codes, segment ids,
	elements and charges).

    Reads/writes MDL SD files, including bonds, formal charges and the
	data items ("properties") attached to each entry.

    Reads and writes gzip- or zstd-compressed files transparently,
	depending on the file extension. Plain files are memory-mapped for reading.

    Allows to select atoms and coordinates by using a go slice of indexes.

Coordinates are kept in v3.Matrix objects, based on gonum's Dense type. Each row of a
v3.Matrix represents one point in space.
*/
package chem
