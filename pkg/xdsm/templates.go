package xdsm

const tikzPictureSource = `
%%% Preamble Requirements %%%
% \usepackage{geometry}
% \usepackage{amsfonts}
% \usepackage{amsmath}
% \usepackage{amssymb}
% \usepackage{tikz}

% Optional packages such as sfmath set through the xdsm configuration
% \usepackage{<<.OptionalPackages>>}

% \usetikzlibrary{arrows,chains,positioning,scopes,shapes.geometric,shapes.misc,shadows}

%%% End Preamble Requirements %%%

\input{<<.StylesPath>>}
\begin{tikzpicture}

\matrix[MatrixSetup]{
<<.Nodes>>};

% XDSM process chains
<<.Process>>

\begin{pgfonlayer}{data}
\path
<<.Edges>>
\end{pgfonlayer}

\end{tikzpicture}
`

const texDocumentSource = `
% XDSM diagram created with xdsm <<.Version>>.
\documentclass{article}
\usepackage{geometry}
\usepackage{amsfonts}
\usepackage{amsmath}
\usepackage{amssymb}
\usepackage{tikz}

% Optional packages such as sfmath set through the xdsm configuration
\usepackage{<<.OptionalPackages>>}

% Define the set of TikZ packages to be included in the architecture diagram document
\usetikzlibrary{arrows,chains,positioning,scopes,shapes.geometric,shapes.misc,shadows}


% Set the border around all of the architecture diagrams to be tight to the diagrams themselves
% (i.e. no longer need to tinker with page size parameters)
\usepackage[active,tightpage]{preview}
\PreviewEnvironment{tikzpicture}
\setlength{\PreviewBorder}{5pt}

\begin{document}

\input{<<.TikZPath>>}

\end{document}
`
